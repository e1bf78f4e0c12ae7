// Package resolver extracts canonical download URLs for operating-system
// installation images from the public index pages of each distribution.
//
// Every strategy resolves exactly one (distribution, version, edition) tuple
// to a single URL or reports unavailability with an error. Errors are a
// normal outcome here: callers treat them as "no link" and move on.
package resolver

import (
	"context"
	"net/http"
)

// HTTPClient is the minimal client surface the strategies need.
// *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Strategy resolves one catalog entry to its canonical download URL.
type Strategy interface {
	// Key returns the resolution key, e.g. "ubuntu_24.04" or
	// "mint_21.3_cinnamon".
	Key() string
	Resolve(ctx context.Context) (string, error)
}

// DefaultStrategies returns every configured strategy in catalog order.
func DefaultStrategies(client *Client) []Strategy {
	var strategies []Strategy

	for _, version := range []string{"24.04", "22.04"} {
		strategies = append(strategies, NewUbuntu(client, version))
	}

	for _, version := range []string{"40", "39"} {
		strategies = append(strategies, NewFedora(client, version))
	}

	strategies = append(strategies,
		NewDebian(client, DebianNet),
		NewDebian(client, DebianDVD),
	)

	for _, edition := range []string{"cinnamon", "mate", "xfce"} {
		strategies = append(strategies, NewMint(client, "21.3", edition))
	}

	strategies = append(strategies,
		NewElementary(client),
		NewPopOS(client, "22.04", false),
		NewPopOS(client, "22.04", true),
	)

	for _, edition := range []string{"kde", "gnome", "xfce"} {
		strategies = append(strategies, NewManjaro(client, edition))
	}

	strategies = append(strategies,
		NewKali(client, KaliLive),
		NewKali(client, KaliInstaller),
		NewZorin(client, "core"),
		NewZorin(client, "lite"),
		NewArch(client),
	)

	return strategies
}

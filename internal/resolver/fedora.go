package resolver

import (
	"context"
	"fmt"
	"regexp"

	"isodepot/internal/common"
)

const fedoraBaseURL = "https://download.fedoraproject.org"

var fedoraISORegexp = regexp.MustCompile(`Fedora-Workstation-Live-x86_64-.*\.iso$`)

// Fedora resolves the Workstation live image from the release mirror.
type Fedora struct {
	BaseURL string

	version string
	client  *Client
}

func NewFedora(client *Client, version string) *Fedora {
	return &Fedora{
		BaseURL: fedoraBaseURL,
		version: version,
		client:  client,
	}
}

func (s *Fedora) Key() string {
	return "fedora_" + s.version
}

func (s *Fedora) Resolve(ctx context.Context) (string, error) {
	pageURL := fmt.Sprintf("%s/pub/fedora/linux/releases/%s/Workstation/x86_64/iso/", s.BaseURL, s.version)

	base, hrefs, err := s.client.Anchors(ctx, pageURL)
	if err != nil {
		return "", err
	}

	for _, href := range hrefs {
		if fedoraISORegexp.MatchString(href) {
			return resolveRef(base, href), nil
		}
	}

	return "", common.ErrNoMatchingAnchor
}

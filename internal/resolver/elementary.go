package resolver

import "context"

const (
	elementaryVersion   = "7.1"
	elementaryTimestamp = "20231031"

	elementaryCDNBase      = "https://objects.githubusercontent.com/github-production-release-asset-2e65be"
	elementaryMirrorBase   = "https://sgp1.dl.elementary.io"
	elementaryDownloadPage = "https://elementary.io/download"
)

// Elementary probes a fixed set of CDN links in priority order. When none
// of them answers, the official download page is reported instead so the
// entry stays reachable.
type Elementary struct {
	Candidates []string
	Fallback   string

	client *Client
}

func NewElementary(client *Client) *Elementary {
	iso := "elementary-os-" + elementaryVersion + "-stable." + elementaryTimestamp + ".iso"

	return &Elementary{
		Candidates: []string{
			elementaryCDNBase + "/" + iso,
			elementaryMirrorBase + "/" + iso,
		},
		Fallback: elementaryDownloadPage,
		client:   client,
	}
}

func (s *Elementary) Key() string {
	return "elementary_os"
}

func (s *Elementary) Resolve(ctx context.Context) (string, error) {
	for _, candidate := range s.Candidates {
		if s.client.Exists(ctx, candidate) {
			return candidate, nil
		}
	}

	return s.Fallback, nil
}

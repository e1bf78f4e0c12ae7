package resolver

import (
	"context"
	"strings"

	"isodepot/internal/common"
)

const manjaroBaseURL = "https://download.manjaro.org"

// Manjaro takes the last full (non-minimal) ISO listed for an edition,
// which the mirror orders oldest first.
type Manjaro struct {
	BaseURL string

	edition string
	client  *Client
}

func NewManjaro(client *Client, edition string) *Manjaro {
	return &Manjaro{
		BaseURL: manjaroBaseURL,
		edition: edition,
		client:  client,
	}
}

func (s *Manjaro) Key() string {
	return "manjaro_" + s.edition
}

func (s *Manjaro) Resolve(ctx context.Context) (string, error) {
	base, hrefs, err := s.client.Anchors(ctx, s.BaseURL+"/"+strings.ToLower(s.edition)+"/")
	if err != nil {
		return "", err
	}

	var latest string
	for _, href := range hrefs {
		if strings.HasSuffix(href, ".iso") && !strings.Contains(strings.ToLower(href), "minimal") {
			latest = resolveRef(base, href)
		}
	}

	if latest == "" {
		return "", common.ErrNoMatchingAnchor
	}

	return latest, nil
}

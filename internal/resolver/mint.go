package resolver

import (
	"context"
	"fmt"
	"strings"

	"isodepot/internal/common"
)

const mintBaseURL = "https://mirrors.edge.kernel.org/linuxmint/stable"

// Mint resolves one desktop edition from the kernel.org mirror.
type Mint struct {
	BaseURL string

	version string
	edition string
	client  *Client
}

func NewMint(client *Client, version, edition string) *Mint {
	return &Mint{
		BaseURL: mintBaseURL,
		version: version,
		edition: edition,
		client:  client,
	}
}

func (s *Mint) Key() string {
	return fmt.Sprintf("mint_%s_%s", s.version, s.edition)
}

func (s *Mint) Resolve(ctx context.Context) (string, error) {
	base, hrefs, err := s.client.Anchors(ctx, fmt.Sprintf("%s/%s/", s.BaseURL, s.version))
	if err != nil {
		return "", err
	}

	want := fmt.Sprintf("linuxmint-%s-%s-64bit.iso", s.version, s.edition)
	for _, href := range hrefs {
		if strings.Contains(strings.ToLower(href), want) {
			return resolveRef(base, href), nil
		}
	}

	return "", common.ErrNoMatchingAnchor
}

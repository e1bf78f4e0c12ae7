package resolver

import (
	"context"
	"fmt"
	"strings"

	"isodepot/internal/common"
)

const ubuntuBaseURL = "https://releases.ubuntu.com"

// Ubuntu resolves the desktop amd64 image from the official release index.
type Ubuntu struct {
	BaseURL string

	version string
	client  *Client
}

func NewUbuntu(client *Client, version string) *Ubuntu {
	return &Ubuntu{
		BaseURL: ubuntuBaseURL,
		version: version,
		client:  client,
	}
}

func (s *Ubuntu) Key() string {
	return "ubuntu_" + s.version
}

func (s *Ubuntu) Resolve(ctx context.Context) (string, error) {
	base, hrefs, err := s.client.Anchors(ctx, fmt.Sprintf("%s/%s/", s.BaseURL, s.version))
	if err != nil {
		return "", err
	}

	for _, href := range hrefs {
		if strings.Contains(href, "desktop-amd64.iso") {
			return resolveRef(base, href), nil
		}
	}

	return "", common.ErrNoMatchingAnchor
}

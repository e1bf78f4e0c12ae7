package resolver

import (
	"context"
	"strings"

	"isodepot/internal/common"
)

const (
	DebianNet DebianType = "net"
	DebianDVD DebianType = "dvd"

	debianBaseURL = "https://cdimage.debian.org/debian-cd/current/amd64"
)

type DebianType string

// Debian resolves the current netinst or DVD image. The index is reached
// through a redirect, so matches are resolved against the effective URL.
type Debian struct {
	BaseURL string

	typ    DebianType
	client *Client
}

func NewDebian(client *Client, typ DebianType) *Debian {
	return &Debian{
		BaseURL: debianBaseURL,
		typ:     typ,
		client:  client,
	}
}

func (s *Debian) Key() string {
	return "debian_" + string(s.typ)
}

func (s *Debian) Resolve(ctx context.Context) (string, error) {
	pageURL := s.BaseURL + "/iso-cd/"
	if s.typ == DebianDVD {
		pageURL = s.BaseURL + "/iso-dvd/"
	}

	base, hrefs, err := s.client.Anchors(ctx, pageURL)
	if err != nil {
		return "", err
	}

	// The netinst directory only lists netinst images and the DVD directory
	// only lists DVD-1, so a single combined match covers both.
	for _, href := range hrefs {
		if strings.Contains(href, "netinst.iso") || strings.Contains(href, "DVD-1.iso") {
			return resolveRef(base, href), nil
		}
	}

	return "", common.ErrNoMatchingAnchor
}

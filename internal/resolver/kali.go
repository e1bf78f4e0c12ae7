package resolver

import (
	"context"
	"strings"

	"isodepot/internal/common"
)

const (
	KaliLive      KaliType = "live"
	KaliInstaller KaliType = "installer"

	kaliBaseURL = "https://cdimage.kali.org/current/"
)

type KaliType string

type Kali struct {
	BaseURL string

	typ    KaliType
	client *Client
}

func NewKali(client *Client, typ KaliType) *Kali {
	return &Kali{
		BaseURL: kaliBaseURL,
		typ:     typ,
		client:  client,
	}
}

func (s *Kali) Key() string {
	return "kali_" + string(s.typ)
}

func (s *Kali) Resolve(ctx context.Context) (string, error) {
	base, hrefs, err := s.client.Anchors(ctx, s.BaseURL)
	if err != nil {
		return "", err
	}

	want := "live-amd64.iso"
	if s.typ == KaliInstaller {
		want = "installer-amd64.iso"
	}

	for _, href := range hrefs {
		if strings.Contains(href, want) {
			return resolveRef(base, href), nil
		}
	}

	return "", common.ErrNoMatchingAnchor
}

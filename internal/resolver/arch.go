package resolver

import (
	"context"
	"regexp"
	"strings"

	"isodepot/internal/common"
)

const archBaseURL = "https://archlinux.c3sl.ufpr.br/iso/"

var (
	archVersionRegexp = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}`)

	archFallbackMirrors = []string{
		"https://mirror.rackspace.com/archlinux/iso/latest/",
		"https://mirrors.kernel.org/archlinux/iso/latest/",
	}
)

// Arch resolves the primary mirror in two steps: pick the greatest
// YYYY.MM.DD release directory, then the archlinux ISO inside it. When the
// primary fails at any step, flat "latest" mirrors are tried in order.
//
// Release directories are compared as strings; the zero-padded date labels
// make that ordering correct.
type Arch struct {
	BaseURL string
	Mirrors []string

	client *Client
}

func NewArch(client *Client) *Arch {
	return &Arch{
		BaseURL: archBaseURL,
		Mirrors: archFallbackMirrors,
		client:  client,
	}
}

func (s *Arch) Key() string {
	return "arch_latest"
}

func (s *Arch) Resolve(ctx context.Context) (string, error) {
	if isoURL, err := s.resolvePrimary(ctx); err == nil {
		return isoURL, nil
	}

	for _, mirror := range s.Mirrors {
		base, hrefs, err := s.client.Anchors(ctx, mirror)
		if err != nil {
			continue
		}

		for _, href := range hrefs {
			if strings.HasPrefix(href, "archlinux-") && strings.HasSuffix(href, ".iso") {
				return resolveRef(base, href), nil
			}
		}
	}

	return "", common.ErrNoMatchingAnchor
}

func (s *Arch) resolvePrimary(ctx context.Context) (string, error) {
	base, hrefs, err := s.client.Anchors(ctx, s.BaseURL)
	if err != nil {
		return "", err
	}

	var latest string
	for _, href := range hrefs {
		if !archVersionRegexp.MatchString(href) {
			continue
		}
		if latest == "" || href > latest {
			latest = href
		}
	}

	if latest == "" {
		return "", common.ErrNoMatchingAnchor
	}

	versionURL := resolveRef(base, latest)
	verBase, hrefs, err := s.client.Anchors(ctx, versionURL)
	if err != nil {
		return "", err
	}

	for _, href := range hrefs {
		if strings.HasSuffix(href, ".iso") && strings.Contains(href, "archlinux-") {
			return resolveRef(verBase, href), nil
		}
	}

	return "", common.ErrNoMatchingAnchor
}

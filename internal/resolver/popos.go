package resolver

import (
	"context"
	"fmt"
	"strings"

	"isodepot/internal/common"
)

const poposBaseURL = "https://iso.pop-os.org"

// PopOS resolves a System76 image in two steps: list the numeric build
// directories for the version, pick the greatest, then HEAD-verify the
// constructed ISO path inside it.
//
// Build labels are compared as strings, not numbers. The observed labels are
// fixed-width, which makes the string order correct; keep it that way.
type PopOS struct {
	BaseURL string

	version string
	nvidia  bool
	client  *Client
}

func NewPopOS(client *Client, version string, nvidia bool) *PopOS {
	return &PopOS{
		BaseURL: poposBaseURL,
		version: version,
		nvidia:  nvidia,
		client:  client,
	}
}

func (s *PopOS) Key() string {
	if s.nvidia {
		return fmt.Sprintf("popos_%s_nvidia", s.version)
	}

	return "popos_" + s.version
}

func (s *PopOS) Resolve(ctx context.Context) (string, error) {
	gpu := "intel"
	if s.nvidia {
		gpu = "nvidia"
	}
	dirURL := fmt.Sprintf("%s/%s/amd64/%s", s.BaseURL, s.version, gpu)

	_, hrefs, err := s.client.Anchors(ctx, dirURL)
	if err != nil {
		return "", err
	}

	var latest string
	for _, href := range hrefs {
		label := strings.TrimSuffix(href, "/")
		if !isDigits(label) {
			continue
		}
		if latest == "" || label > latest {
			latest = label
		}
	}

	if latest == "" {
		return "", common.ErrNoMatchingAnchor
	}

	fileName := fmt.Sprintf("pop-os_%s_amd64_%s_%s.iso", s.version, gpu, latest)
	isoURL := fmt.Sprintf("%s/%s/%s", dirURL, latest, fileName)

	if !s.client.Exists(ctx, isoURL) {
		return "", fmt.Errorf("constructed url is not reachable: %s", isoURL)
	}

	return isoURL, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

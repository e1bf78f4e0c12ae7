package resolver

import (
	"context"
	"fmt"
)

const zorinBaseURL = "https://zorinos.com/download/17"

// Zorin entries point at the official download page rather than a direct
// image, so resolution is only an existence check of the fixed URL.
type Zorin struct {
	BaseURL string

	edition string
	client  *Client
}

func NewZorin(client *Client, edition string) *Zorin {
	return &Zorin{
		BaseURL: zorinBaseURL,
		edition: edition,
		client:  client,
	}
}

func (s *Zorin) Key() string {
	return "zorin_" + s.edition
}

func (s *Zorin) Resolve(ctx context.Context) (string, error) {
	pageURL := s.BaseURL + "/" + s.edition

	if !s.client.Exists(ctx, pageURL) {
		return "", fmt.Errorf("download page is not reachable: %s", pageURL)
	}

	return pageURL, nil
}

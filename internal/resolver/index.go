package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/net/html"
)

// Client fetches mirror index pages and extracts anchor targets. Mirror
// autoindexes are frequently malformed HTML, so the tolerant tokenizer is
// used instead of a full parse.
type Client struct {
	hc HTTPClient
}

func NewClient(hc HTTPClient) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}

	return &Client{hc: hc}
}

// Anchors fetches an index page and returns every anchor target together
// with the effective base URL after server redirects.
func (c *Client) Anchors(ctx context.Context, pageURL string) (*url.URL, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot build request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot fetch index %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("index %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	return resp.Request.URL, extractAnchors(resp.Body), nil
}

// Exists reports whether a HEAD request against rawURL answers 200.
func (c *Client) Exists(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func extractAnchors(r io.Reader) []string {
	var hrefs []string

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return hrefs
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if len(name) != 1 || name[0] != 'a' || !hasAttr {
				continue
			}

			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					hrefs = append(hrefs, string(val))
					break
				}
				if !more {
					break
				}
			}
		}
	}
}

// resolveRef resolves a possibly relative anchor target against the page's
// effective base URL. Unparsable targets resolve to the empty string.
func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}

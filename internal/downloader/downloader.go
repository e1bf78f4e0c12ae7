// Package downloader streams resolved image URLs to local storage and
// gates download actions behind a link usability probe.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"isodepot/internal/common"
	"isodepot/internal/entity"
)

const (
	chunkSize        = 1024 * 1024
	usableSizeFloor  = 100_000_000
	readyForDownload = "Ready for download"
)

// redirectOnlyHosts are distribution pages that never serve the image
// directly; a HEAD against them is still a usable link.
var redirectOnlyHosts = []string{"microsoft.com", "zorinos.com", "elementary.io"}

// ProgressFunc receives the cumulative byte count and the declared total
// after every chunk.
type ProgressFunc func(downloaded, total int64)

// HTTPClient is the client surface the downloader needs. *http.Client
// satisfies it and follows redirects by default, which the downloader
// relies on to capture the final URL.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Downloader struct {
	hc  HTTPClient
	fs  afero.Fs
	log *slog.Logger
}

type Option func(*Downloader)

func WithHTTPClient(hc HTTPClient) Option {
	return func(d *Downloader) {
		if hc != nil {
			d.hc = hc
		}
	}
}

func New(fs afero.Fs, log *slog.Logger, opts ...Option) *Downloader {
	d := &Downloader{
		hc:  http.DefaultClient,
		fs:  fs,
		log: log.With(slog.String("item", "Downloader")),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Download streams url to destination in 1 MiB chunks, calling progress
// after each one. The total size must be determinable up front: when the
// GET response carries no content length, the final redirected URL is
// probed with HEAD, and if that fails too the download is refused.
//
// A failed download leaves any partially written file in place; callers
// must not assume otherwise.
func (d *Downloader) Download(ctx context.Context, url, destination string, progress ProgressFunc) (*entity.DownloadResult, error) {
	result := &entity.DownloadResult{Destination: destination}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, fmt.Errorf("cannot build request: %w", err)
	}

	resp, err := d.hc.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot start download: %w", err)
	}
	defer resp.Body.Close()

	result.FinalURL = resp.Request.URL.String()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		d.log.Warn("No content length in response, probing final url", slog.String("url", result.FinalURL))

		total, err = d.probeSize(ctx, result.FinalURL)
		if err != nil {
			return result, err
		}
	}

	file, err := d.fs.Create(destination)
	if err != nil {
		return result, fmt.Errorf("cannot create destination file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, chunkSize)
	var downloaded int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return result, fmt.Errorf("cannot write destination file: %w", err)
			}

			downloaded += int64(n)
			result.Bytes = downloaded
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}

			return result, fmt.Errorf("download interrupted: %w", readErr)
		}
	}

	result.OK = true

	return result, nil
}

func (d *Downloader) probeSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("cannot build probe request: %w", err)
	}

	resp, err := d.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("cannot probe content length: %w", err)
	}
	defer resp.Body.Close()

	if resp.ContentLength <= 0 {
		return 0, common.ErrSizeUndeterminable
	}

	return resp.ContentLength, nil
}

// VerifyLink classifies a URL as downloadable before the UI exposes a
// download action. Usable means: HEAD answers 200 and either the content
// type looks like an image, the payload is larger than 100 MB, or the host
// is a known redirect-only download page.
func (d *Downloader) VerifyLink(ctx context.Context, url string) entity.LinkCheck {
	if url == "" {
		return entity.LinkCheck{Reason: "No download link available"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return entity.LinkCheck{Reason: fmt.Sprintf("Verification error: %v", err)}
	}

	resp, err := d.hc.Do(req)
	if err != nil {
		return entity.LinkCheck{Reason: fmt.Sprintf("Connection error: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.LinkCheck{Reason: fmt.Sprintf("Link error: HTTP %d", resp.StatusCode)}
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "iso") || strings.Contains(contentType, "octet-stream") {
		return entity.LinkCheck{Usable: true, Reason: readyForDownload}
	}

	if length, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil && length > usableSizeFloor {
		return entity.LinkCheck{Usable: true, Reason: readyForDownload}
	}

	lowered := strings.ToLower(url)
	for _, host := range redirectOnlyHosts {
		if strings.Contains(lowered, host) {
			return entity.LinkCheck{Usable: true, Reason: "Redirect to official download page"}
		}
	}

	return entity.LinkCheck{Reason: "Invalid ISO file"}
}

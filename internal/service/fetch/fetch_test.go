package fetch

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"isodepot/internal/common"
	"isodepot/internal/downloader"
	"isodepot/internal/entity"
	"isodepot/internal/integrity"
)

type fakeCatalog struct {
	releases map[string]entity.Release
}

func (c *fakeCatalog) Lookup(key string) (string, entity.Release, bool) {
	release, exists := c.releases[key]

	return "Ubuntu", release, exists
}

type fakeStats struct {
	counts map[string]int64
}

func (s *fakeStats) IncDownload(ctx context.Context, key string) (int64, error) {
	s.counts[key]++

	return s.counts[key], nil
}

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestFetchEndToEnd(t *testing.T) {
	body := make([]byte, 500)
	_, err := rand.Read(body)
	require.NoError(t, err)

	sum := sha256.Sum256(body)
	digest := hex.EncodeToString(sum[:])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	cat := &fakeCatalog{releases: map[string]entity.Release{
		"ubuntu_24.04": {
			Label:    "24.04 LTS",
			Key:      "ubuntu_24.04",
			URL:      srv.URL + "/iso/test.iso",
			Checksum: "sha256:" + digest,
		},
	}}
	stats := &fakeStats{counts: make(map[string]int64)}

	s := NewFetchService(cat, downloader.New(fs, testLog()), integrity.NewVerifier(fs, testLog()), stats, testLog())

	var progressCalls int
	var lastDownloaded int64

	outcome, err := s.Fetch(context.Background(), "ubuntu_24.04", "/dl", func(downloaded, total int64) {
		progressCalls++
		lastDownloaded = downloaded
	})
	require.NoError(t, err)

	require.NotEmpty(t, outcome.JobID)
	require.True(t, outcome.Download.OK)
	require.EqualValues(t, 500, outcome.Download.Bytes)
	require.Equal(t, "/dl/Ubuntu_24.04 LTS.iso", outcome.Download.Destination)

	require.GreaterOrEqual(t, progressCalls, 1)
	require.EqualValues(t, 500, lastDownloaded)

	require.True(t, outcome.Verify.OK)
	require.False(t, outcome.Verify.Skipped)

	require.EqualValues(t, 1, stats.counts["ubuntu_24.04"])
}

func TestFetchSkipsVerificationWithoutChecksum(t *testing.T) {
	body := []byte("image content")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	cat := &fakeCatalog{releases: map[string]entity.Release{
		"kali_live": {
			Label:    "Latest Live",
			Key:      "kali_live",
			URL:      srv.URL + "/kali.iso",
			Checksum: entity.ChecksumUnset,
		},
	}}

	s := NewFetchService(cat, downloader.New(fs, testLog()), integrity.NewVerifier(fs, testLog()), nil, testLog())

	outcome, err := s.Fetch(context.Background(), "kali_live", "/dl", nil)
	require.NoError(t, err)
	require.True(t, outcome.Verify.OK)
	require.True(t, outcome.Verify.Skipped)
}

func TestFetchUnknownKey(t *testing.T) {
	s := NewFetchService(&fakeCatalog{}, nil, nil, nil, testLog())

	_, err := s.Fetch(context.Background(), "nope", "/dl", nil)
	require.ErrorIs(t, err, common.ErrUnknownReleaseKey)
}

func TestFetchUnresolvedURL(t *testing.T) {
	cat := &fakeCatalog{releases: map[string]entity.Release{
		"fedora_40": {Label: "Fedora 40", Key: "fedora_40"},
	}}

	s := NewFetchService(cat, nil, nil, nil, testLog())

	_, err := s.Fetch(context.Background(), "fedora_40", "/dl", nil)
	require.Error(t, err)
}

func TestCheckLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
	}))
	defer srv.Close()

	cat := &fakeCatalog{releases: map[string]entity.Release{
		"ubuntu_24.04": {Key: "ubuntu_24.04", URL: srv.URL + "/u.iso"},
	}}

	s := NewFetchService(cat, downloader.New(afero.NewMemMapFs(), testLog()), nil, nil, testLog())

	check, err := s.CheckLink(context.Background(), "ubuntu_24.04")
	require.NoError(t, err)
	require.True(t, check.Usable)

	_, err = s.CheckLink(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrUnknownReleaseKey)
}

// Package fetch drives a complete download of one catalog entry: look the
// release up, stream it to disk, verify the checksum, count the download.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"isodepot/internal/common"
	"isodepot/internal/downloader"
	"isodepot/internal/entity"
)

type Catalog interface {
	Lookup(key string) (string, entity.Release, bool)
}

type Downloader interface {
	Download(ctx context.Context, url, destination string, progress downloader.ProgressFunc) (*entity.DownloadResult, error)
	VerifyLink(ctx context.Context, url string) entity.LinkCheck
}

type Verifier interface {
	Verify(filePath, expected string) entity.VerifyResult
}

type StatsRepository interface {
	IncDownload(ctx context.Context, key string) (int64, error)
}

// Outcome is everything one fetch produced.
type Outcome struct {
	JobID    string                 `json:"job_id"`
	Key      string                 `json:"key"`
	Download *entity.DownloadResult `json:"download"`
	Verify   entity.VerifyResult    `json:"verify"`
}

type fetchService struct {
	catalog  Catalog
	dl       Downloader
	verifier Verifier
	stats    StatsRepository
	log      *slog.Logger
}

// NewFetchService wires the fetch pipeline. stats may be nil when download
// statistics are disabled.
func NewFetchService(catalog Catalog, dl Downloader, verifier Verifier, stats StatsRepository, log *slog.Logger) *fetchService {
	return &fetchService{
		catalog:  catalog,
		dl:       dl,
		verifier: verifier,
		stats:    stats,
		log:      log.With(slog.String("service", "fetch")),
	}
}

// CheckLink probes the current URL of a catalog entry.
func (s *fetchService) CheckLink(ctx context.Context, key string) (entity.LinkCheck, error) {
	_, release, exists := s.catalog.Lookup(key)
	if !exists {
		return entity.LinkCheck{}, common.ErrUnknownReleaseKey
	}

	return s.dl.VerifyLink(ctx, release.URL), nil
}

// Fetch downloads the release behind key into dir and verifies the result.
// The destination file is named "{distribution}_{label}.iso".
func (s *fetchService) Fetch(ctx context.Context, key, dir string, progress downloader.ProgressFunc) (*Outcome, error) {
	distribution, release, exists := s.catalog.Lookup(key)
	if !exists {
		return nil, common.ErrUnknownReleaseKey
	}

	if release.URL == "" {
		return nil, fmt.Errorf("release %s has no resolved url", key)
	}

	outcome := &Outcome{
		JobID: uuid.NewString(),
		Key:   key,
	}

	log := s.log.With(slog.String("job_id", outcome.JobID), slog.String("key", key))
	log.Info("Start download", slog.String("url", release.URL))

	destination := filepath.Join(dir, fmt.Sprintf("%s_%s.iso", distribution, release.Label))

	result, err := s.dl.Download(ctx, release.URL, destination, progress)
	outcome.Download = result
	if err != nil {
		log.Error("Download failed", slog.Any("error", err))

		return outcome, fmt.Errorf("cannot download %s: %w", key, err)
	}

	outcome.Verify = s.verifier.Verify(destination, release.Checksum)
	if outcome.Verify.Skipped {
		log.Warn("Checksum verification skipped, no checksum configured")
	} else if !outcome.Verify.OK {
		log.Error("Checksum mismatch",
			slog.String("expected", outcome.Verify.Expected),
			slog.String("computed", outcome.Verify.Computed))
	}

	if s.stats != nil {
		if _, err := s.stats.IncDownload(ctx, key); err != nil {
			// Statistics never fail a download.
			log.Error("Cannot count download", slog.Any("error", err))
		}
	}

	log.Info("Download finished",
		slog.Int64("bytes", result.Bytes),
		slog.Bool("checksum_ok", outcome.Verify.OK))

	return outcome, nil
}

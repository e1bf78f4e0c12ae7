// Package scheduler re-resolves the link cache in the background so the
// catalog stays current without any UI activity.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type LinkCache interface {
	ResolveAll(ctx context.Context) (map[string]string, error)
}

type Catalog interface {
	Merge(links map[string]string)
}

// Scheduler runs one periodic refresh loop. A failed cycle leaves the
// catalog at its previous state and retries at the next tick; only context
// cancellation stops the loop.
type Scheduler struct {
	interval time.Duration
	cache    LinkCache
	catalog  Catalog
	log      *slog.Logger
}

func New(interval time.Duration, cache LinkCache, catalog Catalog, log *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		cache:    cache,
		catalog:  catalog,
		log:      log.With(slog.String("item", "Scheduler")),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("Started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Stopped")

			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh performs one resolve-and-merge cycle.
func (s *Scheduler) Refresh(ctx context.Context) {
	links, err := s.cache.ResolveAll(ctx)
	if err != nil {
		s.log.Error("Refresh cycle failed", slog.Any("error", err))

		return
	}

	s.catalog.Merge(links)
	s.log.Info("Catalog refreshed", slog.Int("links", len(links)))
}

// Package cache persists the last successfully resolved link set and bounds
// how often the upstream mirrors are probed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"

	"isodepot/internal/resolver"
)

const defaultTTL = 24 * time.Hour

// record is the durable cache file layout. The file is read and rewritten
// as a whole, never patched in place.
type record struct {
	Timestamp string            `json:"timestamp"`
	Links     map[string]string `json:"links"`
}

// LinkCache owns the durable link record. All loads, refreshes and stores go
// through a single mutex, so at most one resolution fan-out is in flight and
// readers never observe a half-written record.
type LinkCache struct {
	mu         sync.Mutex
	fs         afero.Fs
	fileName   string
	ttl        time.Duration
	strategies []resolver.Strategy
	now        func() time.Time
	log        *slog.Logger
}

type Option func(*LinkCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *LinkCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces the time source, for freshness tests.
func WithClock(now func() time.Time) Option {
	return func(c *LinkCache) {
		if now != nil {
			c.now = now
		}
	}
}

func New(fs afero.Fs, fileName string, strategies []resolver.Strategy, log *slog.Logger, opts ...Option) *LinkCache {
	c := &LinkCache{
		fs:         fs,
		fileName:   fileName,
		ttl:        defaultTTL,
		strategies: strategies,
		now:        time.Now,
		log:        log.With(slog.String("item", "LinkCache")),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ResolveAll returns the cached link set when it is still fresh, otherwise
// re-resolves every configured strategy, persists the result and returns it.
// The fast path makes no network calls and is safe to call frequently.
// Concurrent callers during a refresh block on the mutex and then hit the
// fast path against the newly persisted record.
func (c *LinkCache) ResolveAll(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if links, ok := c.load(); ok {
		c.log.Debug("Serve cached links", slog.Int("count", len(links)))

		return links, nil
	}

	links := make(map[string]string)
	for _, strategy := range c.strategies {
		url, err := strategy.Resolve(ctx)
		if err != nil {
			// A failed strategy only loses its own entry.
			c.log.Warn("Cannot resolve link", slog.String("key", strategy.Key()), slog.Any("error", err))

			continue
		}

		c.log.Info("Resolved link", slog.String("key", strategy.Key()), slog.String("url", url))
		links[strategy.Key()] = url
	}

	if err := c.store(links); err != nil {
		return nil, fmt.Errorf("cannot persist link cache: %w", err)
	}

	return links, nil
}

// Invalidate drops the persisted record so the next ResolveAll re-resolves.
func (c *LinkCache) Invalidate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fs.Remove(c.fileName); err != nil {
		return fmt.Errorf("cannot remove cache file: %w", err)
	}

	return nil
}

// load returns the persisted link set when the record exists, parses and is
// younger than the TTL. Anything else is a cache miss, never an error.
func (c *LinkCache) load() (map[string]string, bool) {
	data, err := afero.ReadFile(c.fs, c.fileName)
	if err != nil {
		return nil, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.log.Warn("Cache file is corrupt, treating as miss", slog.Any("error", err))

		return nil, false
	}

	stamp, err := time.Parse(time.RFC3339, rec.Timestamp)
	if err != nil {
		c.log.Warn("Cache timestamp is invalid, treating as miss", slog.Any("error", err))

		return nil, false
	}

	if !stamp.Add(c.ttl).After(c.now()) {
		return nil, false
	}

	if rec.Links == nil {
		return nil, false
	}

	return rec.Links, true
}

func (c *LinkCache) store(links map[string]string) error {
	rec := record{
		Timestamp: c.now().Format(time.RFC3339),
		Links:     links,
	}

	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("cannot marshal cache record: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.fileName, data, 0o644); err != nil {
		return fmt.Errorf("cannot write cache file: %w", err)
	}

	return nil
}

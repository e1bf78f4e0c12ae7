// Package stats counts completed downloads per resolution key in redis.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const keyDownloadCounters = "isodepot:dl"

type statsRepository struct {
	cl  *redis.Client
	log *slog.Logger
}

func NewStatsRepository(cl *redis.Client, log *slog.Logger) *statsRepository {
	return &statsRepository{
		cl:  cl,
		log: log.With(slog.String("item", "StatsRepository")),
	}
}

// IncDownload atomically bumps the counter for a resolution key and returns
// the new value.
func (r *statsRepository) IncDownload(ctx context.Context, key string) (int64, error) {
	counter, err := r.cl.HIncrBy(ctx, keyDownloadCounters, key, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("cannot increment counter for %s: %w", key, err)
	}

	return counter, nil
}

// Counters returns every per-key download counter.
func (r *statsRepository) Counters(ctx context.Context) (map[string]int64, error) {
	values, err := r.cl.HGetAll(ctx, keyDownloadCounters).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot get download counters: %w", err)
	}

	counters := make(map[string]int64, len(values))
	for key, value := range values {
		counter, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			r.log.Error("Cannot convert counter to int", slog.String("key", key), slog.Any("error", err))

			continue
		}

		counters[key] = counter
	}

	return counters, nil
}

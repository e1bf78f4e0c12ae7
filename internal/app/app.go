package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"isodepot/internal/cache"
	"isodepot/internal/catalog"
	"isodepot/internal/config"
	"isodepot/internal/downloader"
	httphandler "isodepot/internal/handler/http"
	"isodepot/internal/integrity"
	"isodepot/internal/repository/stats"
	"isodepot/internal/resolver"
	"isodepot/internal/scheduler"
	"isodepot/internal/service/fetch"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfgPath string
	cfg     *config.Config
	srv     *http.Server
	cache   *cache.LinkCache
	sched   *scheduler.Scheduler
	cancel  context.CancelFunc
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

func (a *App) Start() {
	a.cfg = config.MustLoad(a.cfgPath)

	lo := &slog.HandlerOptions{}
	switch a.cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, lo))
	a.log = log

	fs := afero.NewOsFs()
	httpClient := &http.Client{Timeout: a.cfg.Downloader.Timeout}

	strategies := resolver.DefaultStrategies(resolver.NewClient(httpClient))
	a.cache = cache.New(fs, a.cfg.Cache.File, strategies, log, cache.WithTTL(a.cfg.Cache.TTL))

	cat, err := catalog.Load(fs, a.cfg.Catalog.File, log)
	if err != nil {
		panic(err)
	}
	notes := catalog.NewNotes(fs, a.cfg.Catalog.NotesDir, log)

	var (
		fetchStats fetch.StatsRepository
		statsSrv   httphandler.StatsService
	)
	if a.cfg.RedisURL != "" {
		opt, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			panic(err)
		}

		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			panic(err)
		}

		repo := stats.NewStatsRepository(rdb, log)
		fetchStats = repo
		statsSrv = repo
	}

	dl := downloader.New(fs, log, downloader.WithHTTPClient(httpClient))
	verifier := integrity.NewVerifier(fs, log)
	fetchSrv := fetch.NewFetchService(cat, dl, verifier, fetchStats, log)

	a.sched = scheduler.New(a.cfg.Scheduler.Interval, a.cache, cat, log)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	// Initial synchronous resolution so the catalog is populated before the
	// first request.
	a.sched.Refresh(ctx)
	go a.sched.Run(ctx)

	http.Handle("GET /catalog/{$}", httphandler.NewCatalogHandler(cat, log))
	http.Handle("GET /notes/{id}/{$}", httphandler.NewNoteHandler(notes, log))
	http.Handle("POST /refresh/{$}", httphandler.NewRefreshHandler(a.sched, log))
	http.Handle("GET /verify/{$}", httphandler.NewVerifyHandler(fetchSrv, log))
	http.Handle("POST /download/{$}", httphandler.NewDownloadHandler(a.cfg.Downloader.Dir, fetchSrv, log))
	http.Handle("GET /stats/{$}", httphandler.NewStatsHandler(statsSrv, log))

	a.srv = &http.Server{
		Addr: a.cfg.Listen,
	}

	go func() {
		log.Info("Start listen", slog.String("addr", a.cfg.Listen))

		if err := a.srv.ListenAndServe(); err != nil {
			log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()
}

// ForceRefresh drops the persisted link record and re-resolves immediately,
// bypassing the TTL.
func (a *App) ForceRefresh() {
	if err := a.cache.Invalidate(); err != nil {
		a.log.Warn("Cannot invalidate link cache", slog.Any("error", err))
	}

	a.sched.Refresh(context.Background())
}

func (a *App) Stop() {
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.srv.Shutdown(ctx)
}

// Command isoget resolves one catalog entry and downloads it to a local
// directory, verifying the checksum afterwards.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"isodepot/internal/cache"
	"isodepot/internal/catalog"
	"isodepot/internal/config"
	"isodepot/internal/downloader"
	"isodepot/internal/integrity"
	"isodepot/internal/resolver"
	"isodepot/internal/service/fetch"
)

func main() {
	cfgFileName := flag.String("c", "config.yml", "Path to config file")
	key := flag.String("key", "", "Release key to download, e.g. ubuntu_24.04")
	dir := flag.String("dir", "", "Destination directory (defaults to the configured downloads dir)")
	flag.Parse()

	if *key == "" {
		fmt.Fprintln(os.Stderr, "isoget: -key is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*cfgFileName, *key, *dir); err != nil {
		fmt.Fprintf(os.Stderr, "isoget: %s\n", err)
		os.Exit(1)
	}
}

func run(cfgFileName, key, dir string) error {
	cfg, err := config.Load(cfgFileName)
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cfg.Downloader.Dir
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	fs := afero.NewOsFs()
	httpClient := &http.Client{Timeout: cfg.Downloader.Timeout}

	strategies := resolver.DefaultStrategies(resolver.NewClient(httpClient))
	linkCache := cache.New(fs, cfg.Cache.File, strategies, log, cache.WithTTL(cfg.Cache.TTL))

	cat, err := catalog.Load(fs, cfg.Catalog.File, log)
	if err != nil {
		return err
	}

	ctx := context.Background()

	links, err := linkCache.ResolveAll(ctx)
	if err != nil {
		return err
	}
	cat.Merge(links)

	dl := downloader.New(fs, log, downloader.WithHTTPClient(httpClient))
	verifier := integrity.NewVerifier(fs, log)
	srv := fetch.NewFetchService(cat, dl, verifier, nil, log)

	check, err := srv.CheckLink(ctx, key)
	if err != nil {
		return err
	}
	if !check.Usable {
		return fmt.Errorf("link is not usable: %s", check.Reason)
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	outcome, err := srv.Fetch(ctx, key, dir, func(downloaded, total int64) {
		if bar == nil {
			bar = progressbar.DefaultBytes(total, "downloading")
		}
		bar.Set64(downloaded)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nsaved %s (%d bytes)\n", outcome.Download.Destination, outcome.Download.Bytes)

	switch {
	case outcome.Verify.Skipped:
		fmt.Println("warning: no checksum configured, file integrity was not verified")
	case outcome.Verify.OK:
		fmt.Println("checksum verified")
	default:
		return fmt.Errorf("checksum mismatch: expected %s, got %s", outcome.Verify.Expected, outcome.Verify.Computed)
	}

	return nil
}

// Package httphandler is the read-and-act surface the UI consumes.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"isodepot/internal/catalog"
	"isodepot/internal/common"
	"isodepot/internal/downloader"
	"isodepot/internal/entity"
	"isodepot/internal/service/fetch"
)

type CatalogService interface {
	Snapshot() []entity.Distribution
}

type NoteService interface {
	Render(id string) (*catalog.NotePage, error)
}

type RefreshService interface {
	Refresh(ctx context.Context)
}

type FetchService interface {
	CheckLink(ctx context.Context, key string) (entity.LinkCheck, error)
	Fetch(ctx context.Context, key, dir string, progress downloader.ProgressFunc) (*fetch.Outcome, error)
}

type StatsService interface {
	Counters(ctx context.Context) (map[string]int64, error)
}

func NewCatalogHandler(srv CatalogService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "CatalogHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, srv.Snapshot(), log)
	}
}

func NewNoteHandler(srv NoteService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "NoteHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		page, err := srv.Render(r.PathValue("id"))
		if err != nil {
			switch {
			case errors.Is(err, common.ErrNoteNotFound):
				http.Error(w, "Note not found", http.StatusNotFound)
			default:
				log.Error("Cannot render note", slog.Any("error", err))
				http.Error(w, "Cannot render note", http.StatusInternalServerError)
			}

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page.HTML))
	}
}

func NewRefreshHandler(srv RefreshService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "RefreshHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		// Blocks until the refresh cycle completes. Concurrent requests
		// coalesce on the cache lock and observe the same result.
		srv.Refresh(r.Context())

		w.Write([]byte("done"))
	}
}

func NewVerifyHandler(srv FetchService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "VerifyHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" {
			http.Error(w, "Missing key parameter", http.StatusBadRequest)

			return
		}

		check, err := srv.CheckLink(r.Context(), key)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrUnknownReleaseKey):
				http.Error(w, "Unknown release key", http.StatusNotFound)
			default:
				log.Error("Cannot check link", slog.String("key", key), slog.Any("error", err))
				http.Error(w, "Cannot check link", http.StatusInternalServerError)
			}

			return
		}

		writeJSON(w, check, log)
	}
}

type downloadRequest struct {
	Key string `json:"key"`
	Dir string `json:"dir"`
}

func NewDownloadHandler(defaultDir string, srv FetchService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "DownloadHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		var req downloadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		if req.Key == "" {
			http.Error(w, "Missing key", http.StatusBadRequest)

			return
		}
		if req.Dir == "" {
			req.Dir = defaultDir
		}

		outcome, err := srv.Fetch(r.Context(), req.Key, req.Dir, nil)
		if err != nil {
			if errors.Is(err, common.ErrUnknownReleaseKey) {
				http.Error(w, "Unknown release key", http.StatusNotFound)

				return
			}

			log.Error("Download failed", slog.String("key", req.Key), slog.Any("error", err))

			if outcome == nil {
				http.Error(w, "Download failed", http.StatusBadGateway)

				return
			}

			// Report the partial outcome; the partial file stays on disk.
			w.WriteHeader(http.StatusBadGateway)
		}

		writeJSON(w, outcome, log)
	}
}

func NewStatsHandler(srv StatsService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "StatsHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		if srv == nil {
			http.Error(w, common.ErrStatsDisabled.Error(), http.StatusNotFound)

			return
		}

		counters, err := srv.Counters(r.Context())
		if err != nil {
			log.Error("Cannot get download counters", slog.Any("error", err))
			http.Error(w, "Cannot get download counters", http.StatusInternalServerError)

			return
		}

		writeJSON(w, counters, log)
	}
}

func writeJSON(w http.ResponseWriter, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Cannot encode response", slog.Any("error", err))
	}
}

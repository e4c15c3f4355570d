package home

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adx-backend/internal/categories"
	"adx-backend/internal/poll"
)

func newTestPoller(fetch func(ctx context.Context) (Snapshot, error)) *poll.Poller[Snapshot] {
	return poll.New("home", fetch, time.Second, slog.New(slog.DiscardHandler))
}

func TestGetBeforeFirstFetch(t *testing.T) {
	p := newTestPoller(func(ctx context.Context) (Snapshot, error) {
		return Snapshot{}, nil
	})
	h := NewHandler(p, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/home", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first fetch, got %d", rec.Code)
	}
}

func TestGetServesSnapshotWithETag(t *testing.T) {
	p := newTestPoller(func(ctx context.Context) (Snapshot, error) {
		return Snapshot{
			Categories: []categories.Category{{ID: "cat-1", Name: "Residential"}},
		}, nil
	})
	p.Refresh(context.Background())
	h := NewHandler(p, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/home", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag != `"v1"` {
		t.Fatalf("expected ETag %q, got %q", `"v1"`, etag)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304 on matching ETag, got %d", rec.Code)
	}
}

func TestGetETagAdvancesOnChange(t *testing.T) {
	name := "Residential"
	p := newTestPoller(func(ctx context.Context) (Snapshot, error) {
		return Snapshot{
			Categories: []categories.Category{{ID: "cat-1", Name: name}},
		}, nil
	})
	p.Refresh(context.Background())
	name = "Commercial"
	p.Refresh(context.Background())
	h := NewHandler(p, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
	req.Header.Set("If-None-Match", `"v1"`)
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected stale ETag to miss, got %d", rec.Code)
	}
	if got := rec.Header().Get("ETag"); got != `"v2"` {
		t.Fatalf("expected ETag %q after change, got %q", `"v2"`, got)
	}
}

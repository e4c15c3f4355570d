// Package home assembles the landing page payload from several
// collections and serves it out of a polled snapshot, so the hot public
// route never waits on the database.
package home

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"adx-backend/internal/categories"
	"adx-backend/internal/poll"
	"adx-backend/internal/projects"
	"adx-backend/internal/sitecontent"
	"adx-backend/internal/transport"
)

type Snapshot struct {
	Categories       []categories.Category        `json:"categories"`
	FeaturedProjects []projects.Project           `json:"featured_projects"`
	Contact          sitecontent.ContactInfo      `json:"contact"`
	Partners         []sitecontent.TrustedPartner `json:"partners"`
}

type Fetcher struct {
	categories  *categories.Service
	projects    *projects.Service
	sitecontent *sitecontent.Service
}

func NewFetcher(cat *categories.Service, proj *projects.Service, site *sitecontent.Service) *Fetcher {
	return &Fetcher{
		categories:  cat,
		projects:    proj,
		sitecontent: site,
	}
}

// Fetch builds one snapshot. Any failing section fails the whole fetch
// so the poller keeps the previous consistent payload instead of
// serving a half-empty page.
func (f *Fetcher) Fetch(ctx context.Context) (Snapshot, error) {
	cats, err := f.categories.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	featured, err := f.projects.ListFeatured(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	contact, err := f.sitecontent.Contact(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	partners, err := f.sitecontent.ListPartners(ctx, true)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Categories:       cats,
		FeaturedProjects: featured,
		Contact:          contact,
		Partners:         partners,
	}, nil
}

type Handler struct {
	poller *poll.Poller[Snapshot]
	log    *slog.Logger
}

func NewHandler(poller *poll.Poller[Snapshot], log *slog.Logger) *Handler {
	return &Handler{
		poller: poller,
		log:    log,
	}
}

// Get serves the current snapshot. The version doubles as an ETag so
// clients polling on an interval can skip unchanged payloads.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.poller.Ready() {
		transport.WriteError(w, http.StatusServiceUnavailable, "home snapshot not ready", nil)
		return
	}

	snap, version := h.poller.Snapshot()
	etag := `"v` + strconv.FormatUint(version, 10) + `"`

	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": version,
		"data":    snap,
	})
}

package content

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"adx-backend/internal/cache"
	"adx-backend/internal/httpx"
	"adx-backend/internal/middleware"
	"adx-backend/internal/transport"
	"adx-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

const projectsBackURL = "/projects"

type Handler struct {
	service  *Service
	renderer *Renderer
	cache    cache.Cache
	cacheTTL time.Duration
	val      *validation.Validator
	log      *slog.Logger
}

func NewHandler(service *Service, renderer *Renderer, c cache.Cache, cacheTTL time.Duration, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		renderer: renderer,
		cache:    c,
		cacheTTL: cacheTTL,
		val:      val,
		log:      log,
	}
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error("content list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("content list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		log.Warn("content get: missing key")
		transport.WriteError(w, http.StatusBadRequest, "missing key", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetByFileName(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("content get: not found", slog.String("file_name", key))
			transport.WriteError(w, http.StatusNotFound, "content not found", nil)
			return
		}
		log.Error("content get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("content get: ok", slog.String("file_name", key))
	transport.WriteJSON(w, http.StatusOK, item)
}

// PublicPage serves the rendered sandbox document for a content key.
func (h *Handler) PublicPage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		log.Warn("content page: missing key")
		transport.WriteHTML(w, http.StatusBadRequest, h.renderer.ErrorDocument("Missing content key.", projectsBackURL))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	h.servePage(ctx, w, log, key)
}

// ProjectContent reports the resolution result for a project identifier
// without rendering.
func (h *Handler) ProjectContent(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("content resolve: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.service.ResolveProject(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoContent) || errors.Is(err, ErrNotFound) {
			log.Warn("content resolve: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "content not found", nil)
			return
		}
		log.Error("content resolve: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("content resolve: ok", slog.String("project_id", id), slog.String("file_name", res.FileName), slog.Bool("fuzzy", res.Fuzzy))
	transport.WriteJSON(w, http.StatusOK, res)
}

// ProjectPage resolves a project identifier and serves the sandbox
// document for the resolved key.
func (h *Handler) ProjectPage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("content project page: missing id")
		transport.WriteHTML(w, http.StatusBadRequest, h.renderer.ErrorDocument("Missing project identifier.", projectsBackURL))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.service.ResolveProject(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoContent) || errors.Is(err, ErrNotFound) {
			log.Warn("content project page: unresolved", slog.String("project_id", id))
			transport.WriteHTML(w, http.StatusNotFound, h.renderer.ErrorDocument("No case study is available for this project.", projectsBackURL))
			return
		}
		log.Error("content project page: database error", slog.String("error", err.Error()))
		transport.WriteHTML(w, http.StatusInternalServerError, h.renderer.ErrorDocument("Something went wrong loading this page.", projectsBackURL))
		return
	}

	h.servePage(ctx, w, log, res.FileName)
}

func (h *Handler) servePage(ctx context.Context, w http.ResponseWriter, log *slog.Logger, key string) {
	cacheKey := "render:" + key
	if doc, ok, err := h.cache.Get(ctx, cacheKey); err == nil && ok {
		log.Info("content page: cache hit", slog.String("file_name", key))
		transport.WriteHTML(w, http.StatusOK, doc)
		return
	} else if err != nil {
		log.Warn("content page: cache error", slog.String("error", err.Error()))
	}

	title := key
	if item, err := h.service.GetByFileName(ctx, key); err == nil {
		title = item.DisplayName
	}

	source, err := h.service.Source(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("content page: source missing", slog.String("file_name", key))
			transport.WriteHTML(w, http.StatusNotFound, h.renderer.ErrorDocument("The requested case study could not be found.", projectsBackURL))
			return
		}
		log.Error("content page: storage error", slog.String("error", err.Error()))
		transport.WriteHTML(w, http.StatusInternalServerError, h.renderer.ErrorDocument("Something went wrong loading this page.", projectsBackURL))
		return
	}

	doc, err := h.renderer.Document(title, string(source))
	if err != nil {
		// Transform failures stay isolated to this page; the host API is
		// unaffected.
		log.Warn("content page: transform error", slog.String("file_name", key), slog.String("error", err.Error()))
		transport.WriteHTML(w, http.StatusUnprocessableEntity, h.renderer.ErrorDocument("This case study could not be prepared for display.", projectsBackURL))
		return
	}

	if err := h.cache.Set(ctx, cacheKey, doc, h.cacheTTL); err != nil {
		log.Warn("content page: cache set error", slog.String("error", err.Error()))
	}

	log.Info("content page: ok", slog.String("file_name", key))
	transport.WriteHTML(w, http.StatusOK, doc)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req UploadRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin content create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin content create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidFile) {
			log.Warn("admin content create: invalid file", slog.String("file_name", req.FileName))
			transport.WriteError(w, http.StatusBadRequest, "only .jsx source files are accepted", nil)
			return
		}
		if errors.Is(err, ErrKeyExists) {
			log.Warn("admin content create: key exists")
			transport.WriteError(w, http.StatusConflict, "file name already exists", nil)
			return
		}
		log.Error("admin content create: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "content upload failed", nil)
		return
	}

	log.Info("admin content create: ok", slog.String("content_id", item.ID), slog.String("file_name", item.FileName))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin content delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := h.service.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin content delete: not found", slog.String("content_id", id))
			transport.WriteError(w, http.StatusNotFound, "content not found", nil)
			return
		}
		log.Error("admin content delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if err := h.cache.Delete(ctx, "render:"+item.FileName); err != nil {
		log.Warn("admin content delete: cache invalidate error", slog.String("error", err.Error()))
	}

	log.Info("admin content delete: ok", slog.String("content_id", id), slog.String("file_name", item.FileName))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

package projects

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"adx-backend/internal/httpx"
	"adx-backend/internal/middleware"
	"adx-backend/internal/transport"
	"adx-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		log.Warn("projects list: invalid pagination")
		transport.WriteError(w, http.StatusBadRequest, "invalid limit or offset", nil)
		return
	}

	filter := ListFilter{
		CategorySlug: strings.TrimSpace(r.URL.Query().Get("category")),
		Limit:        limit,
		Offset:       offset,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, filter)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			log.Warn("projects list: category not found", slog.String("category", filter.CategorySlug))
			transport.WriteError(w, http.StatusNotFound, "category not found", nil)
			return
		}
		log.Error("projects list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("projects list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("projects get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("projects get: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "project not found", nil)
			return
		}
		log.Error("projects get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("projects get: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin projects create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin projects create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrTooManyImages) {
			log.Warn("admin projects create: too many images")
			transport.WriteError(w, http.StatusBadRequest, "image list limit reached", nil)
			return
		}
		log.Error("admin projects create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin projects create: ok", slog.String("project_id", item.ID), slog.String("title", item.Title))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin projects update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin projects update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin projects update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin projects update: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "project not found", nil)
			return
		}
		if errors.Is(err, ErrTooManyImages) {
			log.Warn("admin projects update: too many images", slog.String("project_id", id))
			transport.WriteError(w, http.StatusBadRequest, "image list limit reached", nil)
			return
		}
		log.Error("admin projects update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin projects update: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin projects delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin projects delete: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "project not found", nil)
			return
		}
		log.Error("admin projects delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin projects delete: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminToggleFeatured(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin projects feature: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.ToggleFeatured(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin projects feature: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "project not found", nil)
			return
		}
		if errors.Is(err, ErrFeaturedLimit) {
			log.Warn("admin projects feature: limit reached", slog.String("project_id", id))
			transport.WriteError(w, http.StatusConflict, "featured project limit reached", nil)
			return
		}
		log.Error("admin projects feature: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin projects feature: ok", slog.String("project_id", id), slog.Bool("is_featured", item.IsFeatured))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminAppendImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin projects image: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req AppendImageRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin projects image: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin projects image: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.AppendImage(ctx, id, req.URL); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin projects image: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "project not found", nil)
			return
		}
		if errors.Is(err, ErrTooManyImages) {
			log.Warn("admin projects image: limit reached", slog.String("project_id", id))
			transport.WriteError(w, http.StatusConflict, "image list limit reached", nil)
			return
		}
		log.Error("admin projects image: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin projects image: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) AdminReorder(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req ReorderRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin projects reorder: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin projects reorder: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.Reorder(ctx, req.IDs); err != nil {
		log.Error("admin projects reorder: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin projects reorder: ok", slog.Int("count", len(req.IDs)))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
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

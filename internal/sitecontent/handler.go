package sitecontent

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

func (h *Handler) PublicContact(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	info, err := h.service.Contact(ctx)
	if err != nil {
		log.Error("contact get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) AdminPatchContact(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var patch ContactPatch
	if !h.decodeValid(w, log, r, &patch, "admin contact patch") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	info, err := h.service.UpdateContact(ctx, patch)
	if err != nil {
		log.Error("admin contact patch: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin contact patch: ok")
	transport.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) PublicHistory(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "history list", func(ctx context.Context) (interface{}, int, error) {
		items, err := h.service.ListHistory(ctx)
		return items, len(items), err
	})
}

func (h *Handler) AdminCreateHistory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req HistoryRequest
	if !h.decodeValid(w, log, r, &req, "admin history create") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.CreateHistory(ctx, req)
	if err != nil {
		log.Error("admin history create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin history create: ok", slog.String("history_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdateHistory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id, ok := h.requireID(w, log, r, "admin history update")
	if !ok {
		return
	}

	var req HistoryRequest
	if !h.decodeValid(w, log, r, &req, "admin history update") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.UpdateHistory(ctx, id, req)
	if err != nil {
		h.writeMutationError(w, log, err, "admin history update", "history entry not found")
		return
	}

	log.Info("admin history update: ok", slog.String("history_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDeleteHistory(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "admin history delete", "history entry not found", h.service.DeleteHistory)
}

func (h *Handler) PublicPartners(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "partners list", func(ctx context.Context) (interface{}, int, error) {
		items, err := h.service.ListPartners(ctx, true)
		return items, len(items), err
	})
}

func (h *Handler) AdminListPartners(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "admin partners list", func(ctx context.Context) (interface{}, int, error) {
		items, err := h.service.ListPartners(ctx, false)
		return items, len(items), err
	})
}

func (h *Handler) AdminCreatePartner(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req TrustedPartnerRequest
	if !h.decodeValid(w, log, r, &req, "admin partner create") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.CreatePartner(ctx, req)
	if err != nil {
		log.Error("admin partner create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin partner create: ok", slog.String("partner_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdatePartner(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id, ok := h.requireID(w, log, r, "admin partner update")
	if !ok {
		return
	}

	var req TrustedPartnerRequest
	if !h.decodeValid(w, log, r, &req, "admin partner update") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.UpdatePartner(ctx, id, req)
	if err != nil {
		h.writeMutationError(w, log, err, "admin partner update", "partner not found")
		return
	}

	log.Info("admin partner update: ok", slog.String("partner_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDeletePartner(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "admin partner delete", "partner not found", h.service.DeletePartner)
}

func (h *Handler) PublicAboutImages(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "about images list", func(ctx context.Context) (interface{}, int, error) {
		items, err := h.service.ListAboutImages(ctx, true)
		return items, len(items), err
	})
}

func (h *Handler) AdminListAboutImages(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "admin about images list", func(ctx context.Context) (interface{}, int, error) {
		items, err := h.service.ListAboutImages(ctx, false)
		return items, len(items), err
	})
}

func (h *Handler) AdminCreateAboutImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req AboutImageRequest
	if !h.decodeValid(w, log, r, &req, "admin about image create") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.CreateAboutImage(ctx, req)
	if err != nil {
		log.Error("admin about image create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin about image create: ok", slog.String("image_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdateAboutImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id, ok := h.requireID(w, log, r, "admin about image update")
	if !ok {
		return
	}

	var req AboutImageRequest
	if !h.decodeValid(w, log, r, &req, "admin about image update") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.UpdateAboutImage(ctx, id, req)
	if err != nil {
		h.writeMutationError(w, log, err, "admin about image update", "about image not found")
		return
	}

	log.Info("admin about image update: ok", slog.String("image_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDeleteAboutImage(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "admin about image delete", "about image not found", h.service.DeleteAboutImage)
}

func (h *Handler) PublicProfiles(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "profiles list", func(ctx context.Context) (interface{}, int, error) {
		items, err := h.service.ListProfiles(ctx, true)
		return items, len(items), err
	})
}

func (h *Handler) AdminListProfiles(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "admin profiles list", func(ctx context.Context) (interface{}, int, error) {
		items, err := h.service.ListProfiles(ctx, false)
		return items, len(items), err
	})
}

func (h *Handler) AdminCreateProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req DownloadProfileRequest
	if !h.decodeValid(w, log, r, &req, "admin profile create") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.CreateProfile(ctx, req)
	if err != nil {
		log.Error("admin profile create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin profile create: ok", slog.String("profile_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id, ok := h.requireID(w, log, r, "admin profile update")
	if !ok {
		return
	}

	var req DownloadProfileRequest
	if !h.decodeValid(w, log, r, &req, "admin profile update") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.UpdateProfile(ctx, id, req)
	if err != nil {
		h.writeMutationError(w, log, err, "admin profile update", "profile not found")
		return
	}

	log.Info("admin profile update: ok", slog.String("profile_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDeleteProfile(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "admin profile delete", "profile not found", h.service.DeleteProfile)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string, fetch func(context.Context) (interface{}, int, error)) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, count, err := fetch(ctx)
	if err != nil {
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info(op+": ok", slog.Int("count", count))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, op, notFoundMsg string, del func(context.Context, string) error) {
	log := h.logWithRequest(r)
	id, ok := h.requireID(w, log, r, op)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := del(ctx, id); err != nil {
		h.writeMutationError(w, log, err, op, notFoundMsg)
		return
	}

	log.Info(op+": ok", slog.String("id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) decodeValid(w http.ResponseWriter, log *slog.Logger, r *http.Request, dst interface{}, op string) bool {
	if err := httpx.DecodeJSON(r.Body, dst); err != nil {
		log.Warn(op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return false
	}
	if err := h.val.Struct(dst); err != nil {
		log.Warn(op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return false
	}
	return true
}

func (h *Handler) requireID(w http.ResponseWriter, log *slog.Logger, r *http.Request, op string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn(op + ": missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return "", false
	}
	return id, true
}

func (h *Handler) writeMutationError(w http.ResponseWriter, log *slog.Logger, err error, op, notFoundMsg string) {
	if errors.Is(err, ErrNotFound) {
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, notFoundMsg, nil)
		return
	}
	log.Error(op+": database error", slog.String("error", err.Error()))
	transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
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

package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"adx-backend/internal/auth"
	"adx-backend/internal/httpx"
	"adx-backend/internal/middleware"
	"adx-backend/internal/transport"
	"adx-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

const (
	refreshCookieName = "adx_refresh"
	refreshCookiePath = "/api/admin"
)

type Handler struct {
	service      *Service
	manager      *auth.Manager
	val          *validation.Validator
	cookieSecure bool
	log          *slog.Logger
}

func NewHandler(service *Service, manager *auth.Manager, val *validation.Validator, cookieSecure bool, log *slog.Logger) *Handler {
	return &Handler{
		service:      service,
		manager:      manager,
		val:          val,
		cookieSecure: cookieSecure,
		log:          log,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if h.manager == nil || len(h.manager.Secret) == 0 {
		log.Warn("admin login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	account, err := h.service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn("admin login: invalid credentials", slog.String("username", req.Username))
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		log.Error("admin login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if err := h.issueSession(w, account.Username); err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	log.Info("admin login: ok", slog.String("username", account.Username))
	transport.WriteJSON(w, http.StatusOK, LoginResponse{Status: "ok", Username: account.Username})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if h.manager == nil || len(h.manager.Secret) == 0 {
		log.Warn("admin refresh: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		log.Warn("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	claims, err := h.manager.Parse(cookie.Value)
	if err != nil || claims.Role != auth.RoleAdmin {
		log.Warn("admin refresh: invalid refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	if err := h.issueSession(w, claims.Username); err != nil {
		log.Error("admin refresh: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	log.Info("admin refresh: ok")
	transport.WriteJSON(w, http.StatusOK, LoginResponse{Status: "ok", Username: claims.Username})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	h.clearSession(w)
	log.Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, LoginResponse{Status: "ok"})
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateAccountRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin accounts create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin accounts create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	account, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			log.Warn("admin accounts create: duplicate", slog.String("username", req.Username))
			transport.WriteError(w, http.StatusConflict, "username already exists", nil)
			return
		}
		log.Error("admin accounts create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin accounts create: ok", slog.String("account_id", account.ID), slog.String("username", account.Username))
	transport.WriteJSON(w, http.StatusCreated, account)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin accounts password: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req PasswordRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin accounts password: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin accounts password: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.UpdatePassword(ctx, id, req.Password); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin accounts password: not found", slog.String("account_id", id))
			transport.WriteError(w, http.StatusNotFound, "account not found", nil)
			return
		}
		log.Error("admin accounts password: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin accounts password: ok", slog.String("account_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) issueSession(w http.ResponseWriter, username string) error {
	access, err := h.manager.NewAccessToken(auth.RoleAdmin, username)
	if err != nil {
		return err
	}
	refresh, err := h.manager.NewRefreshToken(auth.RoleAdmin, username)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookieName,
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.manager.AccessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refresh,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.manager.RefreshTTL.Seconds()),
	})
	return nil
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	expire := time.Now().Add(-1 * time.Hour)
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

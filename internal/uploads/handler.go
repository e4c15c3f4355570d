// Package uploads receives multipart files from the back office,
// shrinks images that exceed the storage ceiling, and writes the
// results to object storage one file at a time.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"adx-backend/internal/assets"
	"adx-backend/internal/middleware"
	"adx-backend/internal/storage"
	"adx-backend/internal/transport"
	"adx-backend/internal/utils"

	"github.com/google/uuid"
)

const (
	// StoragePrefix groups back-office uploads under one key space.
	StoragePrefix = "uploads/"

	// formMemoryLimit bounds how much of the multipart body is held
	// in memory before spilling to temp files.
	formMemoryLimit = 16 << 20

	maxFilesPerRequest = 20
)

type UploadedFile struct {
	FileName    string `json:"file_name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Compressed  bool   `json:"compressed"`
}

type Handler struct {
	store    storage.Store
	maxBytes int64
	log      *slog.Logger
}

func NewHandler(store storage.Store, maxBytes int64, log *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		maxBytes: maxBytes,
		log:      log,
	}
}

// AdminUpload stores every file in the multipart form. Files are
// processed strictly in order; the first failure aborts the request and
// files already stored stay stored, so retries are safe to repeat.
func (h *Handler) AdminUpload(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(formMemoryLimit); err != nil {
		log.Warn("admin upload: invalid multipart body", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		log.Warn("admin upload: no files in request")
		transport.WriteError(w, http.StatusBadRequest, "no files in request", nil)
		return
	}
	if len(headers) > maxFilesPerRequest {
		log.Warn("admin upload: too many files", slog.Int("count", len(headers)))
		transport.WriteError(w, http.StatusBadRequest, "too many files in one request", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	results := make([]UploadedFile, 0, len(headers))
	for _, header := range headers {
		item, err := h.storeOne(ctx, header)
		if err != nil {
			status := http.StatusInternalServerError
			message := "upload failed"
			switch {
			case errors.Is(err, assets.ErrTooLarge):
				status = http.StatusRequestEntityTooLarge
				message = "file exceeds the size limit"
				log.Warn("admin upload: file too large",
					slog.String("file", header.Filename),
					slog.Int64("size", header.Size))
			case errors.Is(err, assets.ErrUndecodable):
				status = http.StatusBadRequest
				message = "image could not be decoded"
				log.Warn("admin upload: undecodable image", slog.String("file", header.Filename))
			default:
				log.Error("admin upload: store failed",
					slog.String("file", header.Filename),
					slog.String("error", err.Error()))
			}
			// Files stored before the failure stay stored; report them
			// so the client does not re-upload the whole batch.
			transport.WriteJSON(w, status, map[string]interface{}{
				"error":     message,
				"file":      header.Filename,
				"completed": results,
			})
			return
		}
		results = append(results, item)
	}

	log.Info("admin upload: ok", slog.Int("count", len(results)))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"items": results,
	})
}

func (h *Handler) storeOne(ctx context.Context, header *multipart.FileHeader) (UploadedFile, error) {
	file, err := header.Open()
	if err != nil {
		return UploadedFile{}, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("read %s: %w", header.Filename, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	processed, err := assets.Compress(data, contentType, h.maxBytes)
	if err != nil {
		return UploadedFile{}, err
	}

	key := h.objectKey(header.Filename)
	url, err := h.store.Put(ctx, key, processed.ContentType, bytes.NewReader(processed.Data))
	if err != nil {
		return UploadedFile{}, fmt.Errorf("store %s: %w", key, err)
	}

	return UploadedFile{
		FileName:    key,
		URL:         url,
		Size:        int64(len(processed.Data)),
		ContentType: processed.ContentType,
		Compressed:  processed.Compressed,
	}, nil
}

func (h *Handler) objectKey(original string) string {
	name := utils.SanitizeFileName(original)
	if name == "" || name == "." {
		name = uuid.NewString()[:8]
	}
	return fmt.Sprintf("%s%d-%s", StoragePrefix, time.Now().UnixMilli(), name)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"adx-backend/internal/storage"
	"adx-backend/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("content not found")
	ErrNoContent   = errors.New("no content available")
	ErrInvalidFile = errors.New("only .jsx source files are accepted")
	ErrKeyExists   = errors.New("file name already exists")
)

// ProjectRef looks up a project's explicit content reference. The bool
// reports whether the project exists at all.
type ProjectRef interface {
	ContentRef(ctx context.Context, projectID string) (string, bool, error)
}

type Service struct {
	repo     Repository
	store    storage.Store
	projects ProjectRef
	location *time.Location
	log      *slog.Logger
}

func NewService(repo Repository, store storage.Store, projects ProjectRef, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		projects: projects,
		location: location,
		log:      log,
	}
}

// Create persists the source body to object storage first and only then
// inserts the metadata row, so a failed storage write never leaves a
// dangling reference.
func (s *Service) Create(ctx context.Context, req UploadRequest) (Content, error) {
	original := strings.TrimSpace(req.FileName)
	if !strings.HasSuffix(strings.ToLower(original), ".jsx") {
		return Content{}, ErrInvalidFile
	}

	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), utils.SanitizeFileName(original))
	filePath := StoragePrefix + fileName

	if _, err := s.store.Put(ctx, filePath, "text/jsx", strings.NewReader(req.Source)); err != nil {
		return Content{}, fmt.Errorf("store source: %w", err)
	}

	now := time.Now().In(s.location)
	item := Content{
		ID:          primitive.NewObjectID().Hex(),
		FileName:    fileName,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Description: strings.TrimSpace(req.Description),
		FilePath:    filePath,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Same millisecond, same sanitized name. Retry once with a
			// random suffix before giving up.
			item.FileName = fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString()[:8], utils.SanitizeFileName(original))
			item.FilePath = StoragePrefix + item.FileName
			if _, putErr := s.store.Put(ctx, item.FilePath, "text/jsx", strings.NewReader(req.Source)); putErr != nil {
				return Content{}, fmt.Errorf("store source: %w", putErr)
			}
			if err := s.repo.Create(ctx, item); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return Content{}, ErrKeyExists
				}
				return Content{}, err
			}
			return item, nil
		}
		return Content{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) (Content, error) {
	id = strings.TrimSpace(id)

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Content{}, ErrNotFound
		}
		return Content{}, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return Content{}, err
	}
	if !deleted {
		return Content{}, ErrNotFound
	}

	// Metadata is gone; a stale body in storage is harmless.
	if err := s.store.Delete(ctx, item.FilePath); err != nil {
		s.log.Warn("content delete: storage cleanup failed",
			slog.String("file_path", item.FilePath),
			slog.String("error", err.Error()))
	}

	return item, nil
}

func (s *Service) List(ctx context.Context) ([]Content, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByFileName(ctx context.Context, fileName string) (Content, error) {
	item, err := s.repo.GetByFileName(ctx, strings.TrimSpace(fileName))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Content{}, ErrNotFound
		}
		return Content{}, err
	}
	return item, nil
}

// Source fetches the raw body for a known file key.
func (s *Service) Source(ctx context.Context, fileName string) ([]byte, error) {
	data, err := s.store.Get(ctx, StoragePrefix+strings.TrimSpace(fileName))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// ResolveContent maps a content id to its file key. Exact only.
func (s *Service) ResolveContent(ctx context.Context, id string) (Resolution, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Resolution{}, ErrNotFound
		}
		return Resolution{}, err
	}
	return Resolution{FileName: item.FileName}, nil
}

// ResolveProject resolves a project identifier to a file key. An explicit
// reference on the project wins; without one, fall back to substring
// matching against the enumerated keys. Two addressing schemes exist for
// backward compatibility, so an unknown project id is still run through the
// fuzzy path rather than rejected.
func (s *Service) ResolveProject(ctx context.Context, projectID string) (Resolution, error) {
	projectID = strings.TrimSpace(projectID)

	refID, found, err := s.projects.ContentRef(ctx, projectID)
	if err != nil {
		return Resolution{}, err
	}
	if found && refID != "" {
		return s.ResolveContent(ctx, refID)
	}

	return s.resolveFuzzy(ctx, projectID)
}

// resolveFuzzy picks the first enumerated key containing the identifier
// or its leading fragment (text before the first hyphen). With no match
// it settles for the first key at all; only an empty content set errors.
// The heuristic is deliberately crude; the pinned enumeration order
// keeps it deterministic.
func (s *Service) resolveFuzzy(ctx context.Context, identifier string) (Resolution, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return Resolution{}, err
	}
	if len(items) == 0 {
		return Resolution{}, ErrNoContent
	}

	fragment := identifier
	if idx := strings.Index(identifier, "-"); idx > 0 {
		fragment = identifier[:idx]
	}

	if identifier != "" {
		for _, item := range items {
			if strings.Contains(item.FileName, identifier) || strings.Contains(item.FileName, fragment) {
				return Resolution{FileName: item.FileName, Fuzzy: true}, nil
			}
		}
	}

	return Resolution{FileName: items[0].FileName, Fuzzy: true}, nil
}

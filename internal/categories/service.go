package categories

import (
	"context"
	"errors"
	"strings"
	"time"

	"adx-backend/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("category not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

// ProjectUnlinker clears the category reference on member projects when a
// category is removed. Deleting a category never cascades to projects.
type ProjectUnlinker interface {
	UnassignCategory(ctx context.Context, categoryID string) (int64, error)
}

type Service struct {
	repo     Repository
	projects ProjectUnlinker
	location *time.Location
}

func NewService(repo Repository, projects ProjectUnlinker, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Category, error) {
	slug := normalizeSlug(req.Slug, req.Name)
	if slug == "" {
		return Category{}, ErrInvalidSlug
	}

	orderIndex := 0
	if req.OrderIndex != nil {
		orderIndex = *req.OrderIndex
	}

	now := time.Now().In(s.location)
	item := Category{
		ID:          primitive.NewObjectID().Hex(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		DisplayType: req.DisplayType,
		OrderIndex:  orderIndex,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Category{}, ErrSlugExists
		}
		return Category{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Category, error) {
	id = strings.TrimSpace(id)
	slug := normalizeSlug(req.Slug, req.Name)
	if slug == "" {
		return Category{}, ErrInvalidSlug
	}

	set := bson.M{
		"name":         strings.TrimSpace(req.Name),
		"slug":         slug,
		"display_type": req.DisplayType,
		"updated_at":   time.Now().In(s.location),
	}
	if req.OrderIndex != nil {
		set["order_index"] = *req.OrderIndex
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Category{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Category{}, ErrSlugExists
		}
		return Category{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (DeleteResult, error) {
	id = strings.TrimSpace(id)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	if !deleted {
		return DeleteResult{}, ErrNotFound
	}

	unlinked, err := s.projects.UnassignCategory(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{UnlinkedProjects: unlinked}, nil
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Category, error) {
	item, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return item, nil
}

// ResolveSlug maps a public slug to the category id.
func (s *Service) ResolveSlug(ctx context.Context, slug string) (string, error) {
	item, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	return item.ID, nil
}

// Reorder rewrites order_index densely in the order the ids arrive.
func (s *Service) Reorder(ctx context.Context, ids []string) error {
	for i, id := range ids {
		if err := s.repo.SetOrderIndex(ctx, strings.TrimSpace(id), i); err != nil {
			return err
		}
	}
	return nil
}

func normalizeSlug(slug, name string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = strings.TrimSpace(name)
	}
	return utils.Slugify(raw)
}

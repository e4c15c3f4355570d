package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound         = errors.New("project not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrFeaturedLimit    = errors.New("featured project limit reached")
	ErrTooManyImages    = errors.New("image list limit reached")
)

// CategoryResolver maps a public category slug to its identifier.
type CategoryResolver interface {
	ResolveSlug(ctx context.Context, slug string) (string, error)
}

type Service struct {
	repo       Repository
	categories CategoryResolver
	location   *time.Location
}

func NewService(repo Repository, categories CategoryResolver, location *time.Location) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		location:   location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Project, error) {
	if len(req.Images) > MaxImages {
		return Project{}, ErrTooManyImages
	}

	orderIndex := DefaultOrderIndex
	if req.OrderIndex != nil {
		orderIndex = *req.OrderIndex
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now().In(s.location)
	item := Project{
		ID:                primitive.NewObjectID().Hex(),
		CategoryID:        strings.TrimSpace(req.CategoryID),
		Title:             strings.TrimSpace(req.Title),
		Location:          strings.TrimSpace(req.Location),
		Area:              strings.TrimSpace(req.Area),
		Type:              strings.TrimSpace(req.Type),
		Year:              strings.TrimSpace(req.Year),
		ExternalContent:   req.ExternalContent,
		Images:            images,
		Layout:            req.Layout,
		OrderIndex:        orderIndex,
		IsFeatured:        false,
		HomeOrder:         nil,
		InternalContentID: strings.TrimSpace(req.InternalContentID),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Project{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Project, error) {
	if len(req.Images) > MaxImages {
		return Project{}, ErrTooManyImages
	}

	set := bson.M{
		"category_id":         strings.TrimSpace(req.CategoryID),
		"title":               strings.TrimSpace(req.Title),
		"location":            strings.TrimSpace(req.Location),
		"area":                strings.TrimSpace(req.Area),
		"type":                strings.TrimSpace(req.Type),
		"year":                strings.TrimSpace(req.Year),
		"external_content":    req.ExternalContent,
		"layout":              req.Layout,
		"internal_content_id": strings.TrimSpace(req.InternalContentID),
		"updated_at":          time.Now().In(s.location),
	}
	if req.Images != nil {
		set["images"] = req.Images
	}
	if req.OrderIndex != nil {
		set["order_index"] = *req.OrderIndex
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Project, error) {
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		categoryID, err := s.categories.ResolveSlug(ctx, slug)
		if err != nil {
			return nil, ErrCategoryNotFound
		}
		filter.CategoryID = categoryID
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (Project, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return item, nil
}

func (s *Service) ListFeatured(ctx context.Context) ([]Project, error) {
	return s.repo.ListFeatured(ctx)
}

// ContentRef reports the project's explicit case study reference, if
// one has been assigned.
func (s *Service) ContentRef(ctx context.Context, projectID string) (string, bool, error) {
	item, err := s.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return item.InternalContentID, item.InternalContentID != "", nil
}

// ToggleFeatured flips the featured flag. Enabling is refused once four
// projects are already featured; the new member takes home_order
// featuredCount+1, disabling clears it and closes the gap in the
// survivors so the set stays dense at {1..n}.
func (s *Service) ToggleFeatured(ctx context.Context, id string) (Project, error) {
	id = strings.TrimSpace(id)

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}

	set := bson.M{"updated_at": time.Now().In(s.location)}
	if current.IsFeatured {
		set["is_featured"] = false
		set["home_order"] = nil
	} else {
		count, err := s.repo.CountFeatured(ctx, id)
		if err != nil {
			return Project{}, err
		}
		if count >= MaxFeatured {
			return Project{}, ErrFeaturedLimit
		}
		order := int(count) + 1
		set["is_featured"] = true
		set["home_order"] = order
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}

	if current.IsFeatured {
		if err := s.compactHomeOrder(ctx); err != nil {
			return Project{}, err
		}
	}
	return updated, nil
}

// compactHomeOrder rewrites home_order over the current featured set as
// 1..n in their existing sort order. Without this, unfeaturing a middle
// member leaves a gap and the next enablement collides with the tail.
func (s *Service) compactHomeOrder(ctx context.Context) error {
	featured, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return err
	}
	for i, item := range featured {
		want := i + 1
		if item.HomeOrder != nil && *item.HomeOrder == want {
			continue
		}
		if _, err := s.repo.Update(ctx, item.ID, bson.M{"home_order": want}); err != nil {
			return err
		}
	}
	return nil
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

func (s *Service) AppendImage(ctx context.Context, id, url string) error {
	id = strings.TrimSpace(id)

	pushed, err := s.repo.PushImage(ctx, id, url)
	if err != nil {
		return err
	}
	if pushed {
		return nil
	}

	// The guarded push matches nothing for both a missing project and a
	// full list; a second read tells them apart.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return ErrTooManyImages
}

func (s *Service) UnassignCategory(ctx context.Context, categoryID string) (int64, error) {
	return s.repo.UnassignCategory(ctx, categoryID)
}

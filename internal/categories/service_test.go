package categories

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]*Category
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*Category)}
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

func (f *fakeRepo) Create(ctx context.Context, item Category) error {
	for _, existing := range f.items {
		if existing.Slug == item.Slug {
			return duplicateKeyErr()
		}
	}
	copied := item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Category, error) {
	item, ok := f.items[id]
	if !ok {
		return Category{}, mongo.ErrNoDocuments
	}
	if slug, ok := set["slug"].(string); ok {
		for otherID, other := range f.items {
			if otherID != id && other.Slug == slug {
				return Category{}, duplicateKeyErr()
			}
		}
		item.Slug = slug
	}
	if name, ok := set["name"].(string); ok {
		item.Name = name
	}
	return *item, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]Category, error) {
	out := make([]Category, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Category, error) {
	item, ok := f.items[id]
	if !ok {
		return Category{}, mongo.ErrNoDocuments
	}
	return *item, nil
}

func (f *fakeRepo) GetBySlug(ctx context.Context, slug string) (Category, error) {
	for _, item := range f.items {
		if item.Slug == slug {
			return *item, nil
		}
	}
	return Category{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) SetOrderIndex(ctx context.Context, id string, orderIndex int) error {
	if item, ok := f.items[id]; ok {
		item.OrderIndex = orderIndex
	}
	return nil
}

type fakeUnlinker struct {
	unassigned []string
	perCall    int64
}

func (f *fakeUnlinker) UnassignCategory(ctx context.Context, categoryID string) (int64, error) {
	f.unassigned = append(f.unassigned, categoryID)
	return f.perCall, nil
}

func newTestService(repo *fakeRepo, unlinker *fakeUnlinker) *Service {
	return NewService(repo, unlinker, time.UTC)
}

func TestCreateDerivesSlugFromName(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeUnlinker{})

	item, err := svc.Create(context.Background(), UpsertRequest{
		Name:        "Mixed Use Development",
		DisplayType: DisplayGrid2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Slug != "mixed-use-development" {
		t.Fatalf("derived slug wrong: %q", item.Slug)
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeUnlinker{})

	if _, err := svc.Create(context.Background(), UpsertRequest{Name: "Urban", DisplayType: DisplayGrid1}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), UpsertRequest{Name: "Urban", DisplayType: DisplayGrid3})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestCreateInvalidSlug(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeUnlinker{})

	_, err := svc.Create(context.Background(), UpsertRequest{
		Name:        "!!!",
		DisplayType: DisplayGrid1,
	})
	if !errors.Is(err, ErrInvalidSlug) {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}
}

func TestUpdateSlugCollision(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeUnlinker{})

	if _, err := svc.Create(context.Background(), UpsertRequest{Name: "Homes", DisplayType: DisplayGrid1}); err != nil {
		t.Fatalf("create homes: %v", err)
	}
	offices, err := svc.Create(context.Background(), UpsertRequest{Name: "Offices", DisplayType: DisplayGrid1})
	if err != nil {
		t.Fatalf("create offices: %v", err)
	}

	_, err = svc.Update(context.Background(), offices.ID, UpsertRequest{Name: "Homes", DisplayType: DisplayGrid1})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestDeleteUnlinksProjects(t *testing.T) {
	repo := newFakeRepo()
	unlinker := &fakeUnlinker{perCall: 3}
	svc := newTestService(repo, unlinker)

	item, err := svc.Create(context.Background(), UpsertRequest{Name: "Retail", DisplayType: DisplayGrid2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Delete(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if result.UnlinkedProjects != 3 {
		t.Fatalf("expected 3 unlinked projects, got %d", result.UnlinkedProjects)
	}
	if len(unlinker.unassigned) != 1 || unlinker.unassigned[0] != item.ID {
		t.Fatalf("unlinker not called with category id: %v", unlinker.unassigned)
	}
}

func TestDeleteMissing(t *testing.T) {
	unlinker := &fakeUnlinker{}
	svc := newTestService(newFakeRepo(), unlinker)

	_, err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(unlinker.unassigned) != 0 {
		t.Fatal("unlinker must not run for a missing category")
	}
}

func TestResolveSlug(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeUnlinker{})

	item, err := svc.Create(context.Background(), UpsertRequest{Name: "Civic", DisplayType: DisplayGrid1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, err := svc.ResolveSlug(context.Background(), "civic")
	if err != nil || id != item.ID {
		t.Fatalf("ResolveSlug: id=%q err=%v", id, err)
	}

	if _, err := svc.ResolveSlug(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

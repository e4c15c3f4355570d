package projects

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]*Project
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*Project)}
}

func (f *fakeRepo) Create(ctx context.Context, item Project) error {
	copied := item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Project, error) {
	item, ok := f.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	if v, ok := set["title"].(string); ok {
		item.Title = v
	}
	if v, ok := set["is_featured"].(bool); ok {
		item.IsFeatured = v
	}
	if v, ok := set["home_order"]; ok {
		switch order := v.(type) {
		case int:
			n := order
			item.HomeOrder = &n
		case nil:
			item.HomeOrder = nil
		}
	}
	if v, ok := set["images"].([]string); ok {
		item.Images = v
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

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Project, error) {
	out := make([]Project, 0, len(f.items))
	for _, item := range f.items {
		if filter.CategoryID != "" && item.CategoryID != filter.CategoryID {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Project, error) {
	item, ok := f.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	return *item, nil
}

func (f *fakeRepo) CountFeatured(ctx context.Context, excludeID string) (int64, error) {
	var n int64
	for _, item := range f.items {
		if item.IsFeatured && item.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ListFeatured(ctx context.Context) ([]Project, error) {
	out := make([]Project, 0)
	for _, item := range f.items {
		if item.IsFeatured {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].HomeOrder, out[j].HomeOrder
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return *a < *b
	})
	return out, nil
}

func (f *fakeRepo) SetOrderIndex(ctx context.Context, id string, orderIndex int) error {
	item, ok := f.items[id]
	if !ok {
		return nil
	}
	item.OrderIndex = orderIndex
	return nil
}

func (f *fakeRepo) PushImage(ctx context.Context, id string, url string) (bool, error) {
	item, ok := f.items[id]
	if !ok {
		return false, nil
	}
	if len(item.Images) >= MaxImages {
		return false, nil
	}
	item.Images = append(item.Images, url)
	return true, nil
}

func (f *fakeRepo) UnassignCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	for _, item := range f.items {
		if item.CategoryID == categoryID {
			item.CategoryID = ""
			n++
		}
	}
	return n, nil
}

type fakeCategories struct {
	slugs map[string]string
}

func (f *fakeCategories) ResolveSlug(ctx context.Context, slug string) (string, error) {
	id, ok := f.slugs[slug]
	if !ok {
		return "", errors.New("category not found")
	}
	return id, nil
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, &fakeCategories{slugs: map[string]string{"residential": "cat-1"}}, time.UTC)
}

func createProject(t *testing.T, svc *Service, title string) Project {
	t.Helper()
	item, err := svc.Create(context.Background(), UpsertRequest{
		Title:  title,
		Layout: LayoutLandscape,
	})
	if err != nil {
		t.Fatalf("create %s: %v", title, err)
	}
	return item
}

func TestToggleFeaturedCapAndOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	ids := make([]string, 0, MaxFeatured+1)
	for i := 0; i < MaxFeatured+1; i++ {
		item := createProject(t, svc, fmt.Sprintf("Project %d", i))
		ids = append(ids, item.ID)
	}

	for i := 0; i < MaxFeatured; i++ {
		item, err := svc.ToggleFeatured(context.Background(), ids[i])
		if err != nil {
			t.Fatalf("feature %d: %v", i, err)
		}
		if item.HomeOrder == nil || *item.HomeOrder != i+1 {
			t.Fatalf("feature %d: expected home_order %d, got %v", i, i+1, item.HomeOrder)
		}
	}

	if _, err := svc.ToggleFeatured(context.Background(), ids[MaxFeatured]); !errors.Is(err, ErrFeaturedLimit) {
		t.Fatalf("fifth feature: expected ErrFeaturedLimit, got %v", err)
	}

	// Unfeaturing a middle member clears its slot and frees capacity
	// for the rejected one.
	unfeatured, err := svc.ToggleFeatured(context.Background(), ids[1])
	if err != nil {
		t.Fatalf("unfeature: %v", err)
	}
	if unfeatured.IsFeatured || unfeatured.HomeOrder != nil {
		t.Fatalf("unfeature left state behind: %+v", unfeatured)
	}

	refeatured, err := svc.ToggleFeatured(context.Background(), ids[MaxFeatured])
	if err != nil {
		t.Fatalf("feature after freeing a slot: %v", err)
	}
	if refeatured.HomeOrder == nil || *refeatured.HomeOrder != MaxFeatured {
		t.Fatalf("expected home_order %d for the new member, got %v", MaxFeatured, refeatured.HomeOrder)
	}

	// The featured set must hold home_order {1..n} with no gaps or
	// duplicates after the unfeature/refeature cycle.
	featured, err := svc.ListFeatured(context.Background())
	if err != nil {
		t.Fatalf("ListFeatured: %v", err)
	}
	if len(featured) != MaxFeatured {
		t.Fatalf("expected %d featured, got %d", MaxFeatured, len(featured))
	}
	seen := make(map[int]bool)
	for _, item := range featured {
		if item.HomeOrder == nil {
			t.Fatalf("featured project %s has no home_order", item.ID)
		}
		order := *item.HomeOrder
		if order < 1 || order > MaxFeatured || seen[order] {
			t.Fatalf("home_order %d out of range or duplicated", order)
		}
		seen[order] = true
	}
}

func TestAppendImageCap(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	item := createProject(t, svc, "Gallery House")
	for i := 0; i < MaxImages; i++ {
		url := fmt.Sprintf("https://cdn.example.com/img-%d.jpg", i)
		if err := svc.AppendImage(context.Background(), item.ID, url); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	err := svc.AppendImage(context.Background(), item.ID, "https://cdn.example.com/one-too-many.jpg")
	if !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("expected ErrTooManyImages, got %v", err)
	}

	stored, err := svc.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Images) != MaxImages {
		t.Fatalf("image list truncated or grew: %d", len(stored.Images))
	}
}

func TestAppendImageMissingProject(t *testing.T) {
	svc := newTestService(newFakeRepo())

	err := svc.AppendImage(context.Background(), "missing", "https://cdn.example.com/a.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateRejectsTooManyImages(t *testing.T) {
	svc := newTestService(newFakeRepo())

	images := make([]string, MaxImages+1)
	for i := range images {
		images[i] = fmt.Sprintf("https://cdn.example.com/img-%d.jpg", i)
	}

	_, err := svc.Create(context.Background(), UpsertRequest{
		Title:  "Overloaded",
		Layout: LayoutPortrait,
		Images: images,
	})
	if !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("expected ErrTooManyImages, got %v", err)
	}
}

func TestListByCategorySlug(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	inCategory, err := svc.Create(context.Background(), UpsertRequest{
		Title:      "Courtyard House",
		Layout:     LayoutLandscape,
		CategoryID: "cat-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	createProject(t, svc, "Unassigned Pavilion")

	items, err := svc.List(context.Background(), ListFilter{CategorySlug: "residential"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != inCategory.ID {
		t.Fatalf("expected exactly the category member, got %+v", items)
	}
}

func TestListByUnknownCategorySlug(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.List(context.Background(), ListFilter{CategorySlug: "warehouse"})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestReorderRewritesDenseIndices(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	a := createProject(t, svc, "A")
	b := createProject(t, svc, "B")
	c := createProject(t, svc, "C")

	if err := svc.Reorder(context.Background(), []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	if repo.items[c.ID].OrderIndex != 0 || repo.items[a.ID].OrderIndex != 1 || repo.items[b.ID].OrderIndex != 2 {
		t.Fatalf("indices not dense: c=%d a=%d b=%d",
			repo.items[c.ID].OrderIndex, repo.items[a.ID].OrderIndex, repo.items[b.ID].OrderIndex)
	}
}

func TestContentRef(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	withRef, err := svc.Create(context.Background(), UpsertRequest{
		Title:             "Linked",
		Layout:            LayoutLandscape,
		InternalContentID: "content-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	withoutRef := createProject(t, svc, "Unlinked")

	ref, found, err := svc.ContentRef(context.Background(), withRef.ID)
	if err != nil || !found || ref != "content-1" {
		t.Fatalf("explicit ref: ref=%q found=%v err=%v", ref, found, err)
	}

	if _, found, err := svc.ContentRef(context.Background(), withoutRef.ID); err != nil || found {
		t.Fatalf("no ref: found=%v err=%v", found, err)
	}

	if _, found, err := svc.ContentRef(context.Background(), "missing"); err != nil || found {
		t.Fatalf("missing project must not error: found=%v err=%v", found, err)
	}
}

package sitecontent

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	contact    *ContactInfo
	history    []HistoryEntry
	partners   []TrustedPartner
	putCount   int
	lastPut    ContactInfo
	historyErr error
}

func (f *fakeRepo) GetContact(ctx context.Context) (ContactInfo, bool, error) {
	if f.contact == nil {
		return ContactInfo{}, false, nil
	}
	return *f.contact, true, nil
}

func (f *fakeRepo) PutContact(ctx context.Context, info ContactInfo) error {
	f.putCount++
	f.lastPut = info
	f.contact = &info
	return nil
}

func (f *fakeRepo) ListHistory(ctx context.Context) ([]HistoryEntry, error) {
	return f.history, f.historyErr
}

func (f *fakeRepo) CreateHistory(ctx context.Context, item HistoryEntry) error {
	f.history = append(f.history, item)
	return nil
}

func (f *fakeRepo) UpdateHistory(ctx context.Context, id string, set bson.M) (HistoryEntry, error) {
	for i := range f.history {
		if f.history[i].ID == id {
			if v, ok := set["title"].(string); ok {
				f.history[i].Title = v
			}
			return f.history[i], nil
		}
	}
	return HistoryEntry{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) DeleteHistory(ctx context.Context, id string) (bool, error) {
	for i := range f.history {
		if f.history[i].ID == id {
			f.history = append(f.history[:i], f.history[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListPartners(ctx context.Context, activeOnly bool) ([]TrustedPartner, error) {
	if !activeOnly {
		return f.partners, nil
	}
	out := make([]TrustedPartner, 0, len(f.partners))
	for _, p := range f.partners {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreatePartner(ctx context.Context, item TrustedPartner) error {
	f.partners = append(f.partners, item)
	return nil
}

func (f *fakeRepo) UpdatePartner(ctx context.Context, id string, set bson.M) (TrustedPartner, error) {
	return TrustedPartner{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) DeletePartner(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (f *fakeRepo) ListAboutImages(ctx context.Context, activeOnly bool) ([]AboutImage, error) {
	return nil, nil
}

func (f *fakeRepo) CreateAboutImage(ctx context.Context, item AboutImage) error { return nil }

func (f *fakeRepo) UpdateAboutImage(ctx context.Context, id string, set bson.M) (AboutImage, error) {
	return AboutImage{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) DeleteAboutImage(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (f *fakeRepo) ListProfiles(ctx context.Context, activeOnly bool) ([]DownloadProfile, error) {
	return nil, nil
}

func (f *fakeRepo) CreateProfile(ctx context.Context, item DownloadProfile) error { return nil }

func (f *fakeRepo) UpdateProfile(ctx context.Context, id string, set bson.M) (DownloadProfile, error) {
	return DownloadProfile{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) DeleteProfile(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func strptr(s string) *string { return &s }

func TestUpdateContactMergesOnlySubmittedFields(t *testing.T) {
	repo := &fakeRepo{contact: &ContactInfo{
		ID:            "contact-1",
		Email:         "hello@example.com",
		Hotline:       "0900 000 000",
		OfficeAddress: "12 Old Street",
	}}
	svc := NewService(repo, time.UTC)

	info, err := svc.UpdateContact(context.Background(), ContactPatch{
		Hotline: strptr("0900 111 222"),
	})
	if err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}

	if info.Hotline != "0900 111 222" {
		t.Fatalf("hotline not updated, got %q", info.Hotline)
	}
	if info.Email != "hello@example.com" {
		t.Fatalf("email blanked by unrelated patch: %q", info.Email)
	}
	if info.OfficeAddress != "12 Old Street" {
		t.Fatalf("office address blanked by unrelated patch: %q", info.OfficeAddress)
	}
	if repo.putCount != 1 {
		t.Fatalf("expected one write, got %d", repo.putCount)
	}
}

func TestUpdateContactCreatesRecordWhenMissing(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, time.UTC)

	info, err := svc.UpdateContact(context.Background(), ContactPatch{
		Email: strptr("  first@example.com "),
	})
	if err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	if info.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if info.Email != "first@example.com" {
		t.Fatalf("expected trimmed email, got %q", info.Email)
	}
	if repo.contact == nil {
		t.Fatal("record was not persisted")
	}
}

func TestUpdateContactSecondWriteWins(t *testing.T) {
	repo := &fakeRepo{contact: &ContactInfo{ID: "contact-1", Email: "a@example.com"}}
	svc := NewService(repo, time.UTC)

	if _, err := svc.UpdateContact(context.Background(), ContactPatch{Email: strptr("b@example.com")}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := svc.UpdateContact(context.Background(), ContactPatch{Email: strptr("c@example.com")}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if repo.lastPut.Email != "c@example.com" {
		t.Fatalf("expected last write to win, got %q", repo.lastPut.Email)
	}
}

func TestUpdateHistoryNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{}, time.UTC)

	_, err := svc.UpdateHistory(context.Background(), "missing", HistoryRequest{Year: "2019", Title: "Founded"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteHistoryNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{}, time.UTC)

	if err := svc.DeleteHistory(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePartnerDefaultsActive(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, time.UTC)

	item, err := svc.CreatePartner(context.Background(), TrustedPartnerRequest{
		Name:    "Acme",
		LogoURL: "https://cdn.example.com/acme.png",
	})
	if err != nil {
		t.Fatalf("CreatePartner: %v", err)
	}
	if !item.IsActive {
		t.Fatal("new partner should default to active")
	}

	inactive := false
	item, err = svc.CreatePartner(context.Background(), TrustedPartnerRequest{
		Name:     "Dormant",
		LogoURL:  "https://cdn.example.com/dormant.png",
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("CreatePartner: %v", err)
	}
	if item.IsActive {
		t.Fatal("explicit inactive flag ignored")
	}

	active, err := svc.ListPartners(context.Background(), true)
	if err != nil {
		t.Fatalf("ListPartners: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Acme" {
		t.Fatalf("active filter wrong: %+v", active)
	}
}

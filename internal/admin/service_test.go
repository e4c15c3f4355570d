package admin

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"adx-backend/internal/auth"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeRepo struct {
	accounts map[string]Account
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: make(map[string]Account)}
}

func (f *fakeRepo) Create(ctx context.Context, account Account) error {
	f.accounts[account.Username] = account
	return nil
}

func (f *fakeRepo) GetByUsername(ctx context.Context, username string) (Account, bool, error) {
	account, ok := f.accounts[username]
	return account, ok, nil
}

func (f *fakeRepo) SetPasswordHash(ctx context.Context, id string, hash string, set bson.M) (bool, error) {
	for name, account := range f.accounts {
		if account.ID == id {
			account.PasswordHash = hash
			f.accounts[name] = account
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.accounts)), nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, time.UTC, slog.New(slog.DiscardHandler))
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.accounts["ops"] = Account{ID: "1", Username: "ops", PasswordHash: hash}

	if _, err := svc.Authenticate(context.Background(), "  OPS ", "correct horse"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "ops", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "ghost", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateStoresHashNotPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	account, err := svc.Create(context.Background(), CreateAccountRequest{
		Username: "Editor",
		Password: "longenoughpw",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if account.Username != "editor" {
		t.Fatalf("username not normalized: %q", account.Username)
	}
	if account.PasswordHash == "longenoughpw" || account.PasswordHash == "" {
		t.Fatal("password stored in the clear or hash missing")
	}
	if err := auth.ComparePassword(account.PasswordHash, "longenoughpw"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestBootstrap(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	if err := svc.Bootstrap(context.Background(), "admin", ""); err != nil {
		t.Fatalf("empty password bootstrap: %v", err)
	}
	if len(repo.accounts) != 0 {
		t.Fatal("bootstrap without a password must be a no-op")
	}

	if err := svc.Bootstrap(context.Background(), "admin", "bootstrappw1"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected one account, got %d", len(repo.accounts))
	}

	// A second run must not add or overwrite accounts.
	if err := svc.Bootstrap(context.Background(), "other", "differentpw1"); err != nil {
		t.Fatalf("second Bootstrap: %v", err)
	}
	if len(repo.accounts) != 1 {
		t.Fatal("bootstrap ran again over an existing account")
	}
}

func TestUpdatePasswordRotatesCredential(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	hash, err := auth.HashPassword("old password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.accounts["ops"] = Account{ID: "1", Username: "ops", PasswordHash: hash}

	if err := svc.UpdatePassword(context.Background(), "1", "new password1"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "ops", "old password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ops", "new password1"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestUpdatePasswordNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if err := svc.UpdatePassword(context.Background(), "missing", "newpassword1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

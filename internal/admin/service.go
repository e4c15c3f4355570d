package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"adx-backend/internal/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrNotFound           = errors.New("account not found")
)

// dummyHash is a throwaway bcrypt hash compared against when the
// username does not exist.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Service struct {
	repo     Repository
	location *time.Location
	log      *slog.Logger
}

func NewService(repo Repository, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		location: location,
		log:      log,
	}
}

// Authenticate checks the password against the stored bcrypt hash. A
// missing account and a wrong password both come back as
// ErrInvalidCredentials so login responses cannot be used to probe for
// usernames.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	account, found, err := s.repo.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return Account{}, err
	}
	if !found {
		// Burn a comparison so the miss costs as much as a mismatch.
		_ = auth.ComparePassword(dummyHash, password)
		return Account{}, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (s *Service) Create(ctx context.Context, req CreateAccountRequest) (Account, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return Account{}, err
	}

	now := time.Now().In(s.location)
	account := Account{
		ID:           primitive.NewObjectID().Hex(),
		Username:     normalizeUsername(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Account{}, ErrUsernameExists
		}
		return Account{}, err
	}
	return account, nil
}

func (s *Service) UpdatePassword(ctx context.Context, id, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	matched, err := s.repo.SetPasswordHash(ctx, strings.TrimSpace(id), hash, bson.M{
		"updated_at": time.Now().In(s.location),
	})
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// Bootstrap creates the first account from environment credentials so a
// fresh deployment can be logged into. It does nothing when any account
// already exists or when no bootstrap password is configured.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	if password == "" {
		return nil
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	account, err := s.Create(ctx, CreateAccountRequest{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return nil
		}
		return err
	}

	s.log.Info("bootstrap admin account created", slog.String("username", account.Username))
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

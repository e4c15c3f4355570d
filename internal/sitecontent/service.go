package sitecontent

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("record not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

// Contact returns the stored record, or a zero value when none exists
// yet.
func (s *Service) Contact(ctx context.Context) (ContactInfo, error) {
	info, _, err := s.repo.GetContact(ctx)
	return info, err
}

// UpdateContact overlays the submitted fields onto the stored record and
// writes the merge back, so one admin form cannot blank out fields a
// different form owns. The merge is not transactional: two concurrent
// writers race and the second write wins wholesale (last write wins).
func (s *Service) UpdateContact(ctx context.Context, patch ContactPatch) (ContactInfo, error) {
	current, found, err := s.repo.GetContact(ctx)
	if err != nil {
		return ContactInfo{}, err
	}
	if !found {
		current = ContactInfo{ID: primitive.NewObjectID().Hex()}
	}

	if patch.Email != nil {
		current.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Hotline != nil {
		current.Hotline = strings.TrimSpace(*patch.Hotline)
	}
	if patch.BusinessRegistrationAddress != nil {
		current.BusinessRegistrationAddress = strings.TrimSpace(*patch.BusinessRegistrationAddress)
	}
	if patch.OfficeAddress != nil {
		current.OfficeAddress = strings.TrimSpace(*patch.OfficeAddress)
	}
	if patch.GoogleMapURL != nil {
		current.GoogleMapURL = strings.TrimSpace(*patch.GoogleMapURL)
	}
	current.UpdatedAt = time.Now().In(s.location)

	if err := s.repo.PutContact(ctx, current); err != nil {
		return ContactInfo{}, err
	}
	return current, nil
}

func (s *Service) ListHistory(ctx context.Context) ([]HistoryEntry, error) {
	return s.repo.ListHistory(ctx)
}

func (s *Service) CreateHistory(ctx context.Context, req HistoryRequest) (HistoryEntry, error) {
	now := time.Now().In(s.location)
	item := HistoryEntry{
		ID:          primitive.NewObjectID().Hex(),
		Year:        strings.TrimSpace(req.Year),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		OrderIndex:  orderOrDefault(req.OrderIndex),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateHistory(ctx, item); err != nil {
		return HistoryEntry{}, err
	}
	return item, nil
}

func (s *Service) UpdateHistory(ctx context.Context, id string, req HistoryRequest) (HistoryEntry, error) {
	set := bson.M{
		"year":        strings.TrimSpace(req.Year),
		"title":       strings.TrimSpace(req.Title),
		"description": strings.TrimSpace(req.Description),
		"updated_at":  time.Now().In(s.location),
	}
	if req.OrderIndex != nil {
		set["order_index"] = *req.OrderIndex
	}
	item, err := s.repo.UpdateHistory(ctx, strings.TrimSpace(id), set)
	if err != nil {
		return HistoryEntry{}, mapNotFound(err)
	}
	return item, nil
}

func (s *Service) DeleteHistory(ctx context.Context, id string) error {
	return requireDeleted(s.repo.DeleteHistory(ctx, strings.TrimSpace(id)))
}

func (s *Service) ListPartners(ctx context.Context, activeOnly bool) ([]TrustedPartner, error) {
	return s.repo.ListPartners(ctx, activeOnly)
}

func (s *Service) CreatePartner(ctx context.Context, req TrustedPartnerRequest) (TrustedPartner, error) {
	now := time.Now().In(s.location)
	item := TrustedPartner{
		ID:         primitive.NewObjectID().Hex(),
		Name:       strings.TrimSpace(req.Name),
		LogoURL:    strings.TrimSpace(req.LogoURL),
		WebsiteURL: strings.TrimSpace(req.WebsiteURL),
		OrderIndex: orderOrDefault(req.OrderIndex),
		IsActive:   boolOrTrue(req.IsActive),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreatePartner(ctx, item); err != nil {
		return TrustedPartner{}, err
	}
	return item, nil
}

func (s *Service) UpdatePartner(ctx context.Context, id string, req TrustedPartnerRequest) (TrustedPartner, error) {
	set := bson.M{
		"name":        strings.TrimSpace(req.Name),
		"logo_url":    strings.TrimSpace(req.LogoURL),
		"website_url": strings.TrimSpace(req.WebsiteURL),
		"updated_at":  time.Now().In(s.location),
	}
	if req.OrderIndex != nil {
		set["order_index"] = *req.OrderIndex
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}
	item, err := s.repo.UpdatePartner(ctx, strings.TrimSpace(id), set)
	if err != nil {
		return TrustedPartner{}, mapNotFound(err)
	}
	return item, nil
}

func (s *Service) DeletePartner(ctx context.Context, id string) error {
	return requireDeleted(s.repo.DeletePartner(ctx, strings.TrimSpace(id)))
}

func (s *Service) ListAboutImages(ctx context.Context, activeOnly bool) ([]AboutImage, error) {
	return s.repo.ListAboutImages(ctx, activeOnly)
}

func (s *Service) CreateAboutImage(ctx context.Context, req AboutImageRequest) (AboutImage, error) {
	now := time.Now().In(s.location)
	item := AboutImage{
		ID:         primitive.NewObjectID().Hex(),
		Title:      strings.TrimSpace(req.Title),
		ImageURL:   strings.TrimSpace(req.ImageURL),
		OrderIndex: orderOrDefault(req.OrderIndex),
		IsActive:   boolOrTrue(req.IsActive),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateAboutImage(ctx, item); err != nil {
		return AboutImage{}, err
	}
	return item, nil
}

func (s *Service) UpdateAboutImage(ctx context.Context, id string, req AboutImageRequest) (AboutImage, error) {
	set := bson.M{
		"title":      strings.TrimSpace(req.Title),
		"image_url":  strings.TrimSpace(req.ImageURL),
		"updated_at": time.Now().In(s.location),
	}
	if req.OrderIndex != nil {
		set["order_index"] = *req.OrderIndex
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}
	item, err := s.repo.UpdateAboutImage(ctx, strings.TrimSpace(id), set)
	if err != nil {
		return AboutImage{}, mapNotFound(err)
	}
	return item, nil
}

func (s *Service) DeleteAboutImage(ctx context.Context, id string) error {
	return requireDeleted(s.repo.DeleteAboutImage(ctx, strings.TrimSpace(id)))
}

func (s *Service) ListProfiles(ctx context.Context, activeOnly bool) ([]DownloadProfile, error) {
	return s.repo.ListProfiles(ctx, activeOnly)
}

func (s *Service) CreateProfile(ctx context.Context, req DownloadProfileRequest) (DownloadProfile, error) {
	now := time.Now().In(s.location)
	item := DownloadProfile{
		ID:          primitive.NewObjectID().Hex(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		FileName:    strings.TrimSpace(req.FileName),
		FileURL:     strings.TrimSpace(req.FileURL),
		FileSize:    req.FileSize,
		FileType:    strings.TrimSpace(req.FileType),
		OrderIndex:  orderOrDefault(req.OrderIndex),
		IsActive:    boolOrTrue(req.IsActive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateProfile(ctx, item); err != nil {
		return DownloadProfile{}, err
	}
	return item, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, req DownloadProfileRequest) (DownloadProfile, error) {
	set := bson.M{
		"title":       strings.TrimSpace(req.Title),
		"description": strings.TrimSpace(req.Description),
		"file_name":   strings.TrimSpace(req.FileName),
		"file_url":    strings.TrimSpace(req.FileURL),
		"file_size":   req.FileSize,
		"file_type":   strings.TrimSpace(req.FileType),
		"updated_at":  time.Now().In(s.location),
	}
	if req.OrderIndex != nil {
		set["order_index"] = *req.OrderIndex
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}
	item, err := s.repo.UpdateProfile(ctx, strings.TrimSpace(id), set)
	if err != nil {
		return DownloadProfile{}, mapNotFound(err)
	}
	return item, nil
}

func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	return requireDeleted(s.repo.DeleteProfile(ctx, strings.TrimSpace(id)))
}

func orderOrDefault(v *int) int {
	if v != nil {
		return *v
	}
	return 0
}

func boolOrTrue(v *bool) bool {
	if v != nil {
		return *v
	}
	return true
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func requireDeleted(deleted bool, err error) error {
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

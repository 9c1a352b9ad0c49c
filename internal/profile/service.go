// internal/profile/service.go

package profile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/models"
)

// Service defines profile operations
type Service interface {
	CreateProfile(ctx context.Context, telegramID int64, req *CreateProfileRequest) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, telegramID int64, req *UpdateProfileRequest) (*models.UserProfile, error)
	GetMyProfile(ctx context.Context, telegramID int64) (*models.UserProfile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewService creates a new profile service
func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log, now: time.Now}
}

func (s *service) CreateProfile(ctx context.Context, telegramID int64, req *CreateProfileRequest) (*models.UserProfile, error) {
	now := s.now().UTC()
	p := &models.UserProfile{
		ID:             uuid.New(),
		TelegramID:     telegramID,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhotoURL:       req.PhotoURL,
		About:          req.About,
		Age:            req.Age,
		Gender:         models.Gender(req.Gender),
		Station:        req.Station,
		SearchRadiusKm: req.SearchRadiusKm,
		PriceMin:       req.PriceMin,
		PriceMax:       req.PriceMax,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Latitude != nil {
		p.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = *req.Longitude
	}

	if err := Validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProfile(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("profile created", "profile_id", p.ID, "telegram_id", telegramID)
	return p, nil
}

func (s *service) UpdateProfile(ctx context.Context, telegramID int64, req *UpdateProfileRequest) (*models.UserProfile, error) {
	if err := req.checkClears(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	merged := *current
	req.apply(&merged)
	if err := Validate(&merged); err != nil {
		return nil, err
	}

	return s.repo.UpdateProfile(ctx, current.ID, req)
}

func (s *service) GetMyProfile(ctx context.Context, telegramID int64) (*models.UserProfile, error) {
	return s.repo.GetByTelegramID(ctx, telegramID)
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	return s.repo.GetByID(ctx, id)
}

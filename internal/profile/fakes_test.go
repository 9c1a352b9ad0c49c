package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

type memRepository struct {
	mu       sync.Mutex
	profiles []*models.UserProfile
}

func (m *memRepository) CreateProfile(_ context.Context, p *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.TelegramID == p.TelegramID {
			return ErrProfileExists
		}
	}
	cp := *p
	m.profiles = append(m.profiles, &cp)
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id uuid.UUID) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (m *memRepository) GetByTelegramID(_ context.Context, telegramID int64) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.TelegramID == telegramID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (m *memRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.UserProfile, error) {
	var out []*models.UserProfile
	for _, id := range ids {
		if p, err := m.GetByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepository) ListProfiles(_ context.Context) ([]*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.UserProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepository) UpdateProfile(_ context.Context, id uuid.UUID, req *UpdateProfileRequest) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.ID == id {
			req.apply(p)
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrProfileNotFound
}

package matching

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/listing"
	"github.com/imadgeboyega/roommate-finder/internal/models"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
)

type memLikeStore struct {
	mu      sync.Mutex
	likes   []*models.LikeEdge
	matches []*models.MatchRecord
}

func (m *memLikeStore) exists(actorID, targetID uuid.UUID, targetType models.TargetType) bool {
	for _, l := range m.likes {
		if l.ActorID == actorID && l.TargetID == targetID && l.TargetType == targetType {
			return true
		}
	}
	return false
}

func (m *memLikeStore) saveMatch(rec *models.MatchRecord) bool {
	pair := rec.Pair()
	for _, existing := range m.matches {
		if existing.Pair() == pair {
			return false
		}
	}
	m.matches = append(m.matches, &models.MatchRecord{
		ID: rec.ID, User1ID: pair.User1ID, User2ID: pair.User2ID, MatchedAt: rec.MatchedAt,
	})
	return true
}

func (m *memLikeStore) InsertLike(_ context.Context, like *models.LikeEdge) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.exists(like.ActorID, like.TargetID, like.TargetType) {
		return false, duplicateOf(like)
	}
	cp := *like
	m.likes = append(m.likes, &cp)

	if like.TargetType != models.TargetUser || !m.exists(like.TargetID, like.ActorID, models.TargetUser) {
		return false, nil
	}
	return m.saveMatch(&models.MatchRecord{
		ID: uuid.New(), User1ID: like.ActorID, User2ID: like.TargetID, MatchedAt: like.CreatedAt,
	}), nil
}

func (m *memLikeStore) LikeExists(_ context.Context, actorID, targetID uuid.UUID, targetType models.TargetType) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists(actorID, targetID, targetType), nil
}

func (m *memLikeStore) LikesByActor(_ context.Context, actorID uuid.UUID, targetType models.TargetType) ([]*models.LikeEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.LikeEdge
	for _, l := range m.likes {
		if l.ActorID == actorID && l.TargetType == targetType {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLikeStore) LikesByTarget(_ context.Context, targetID uuid.UUID, targetType models.TargetType) ([]*models.LikeEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.LikeEdge
	for _, l := range m.likes {
		if l.TargetID == targetID && l.TargetType == targetType {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLikeStore) MatchRecords(_ context.Context) ([]*models.MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.MatchRecord, len(m.matches))
	copy(out, m.matches)
	return out, nil
}

func (m *memLikeStore) MutualPairs(_ context.Context) ([]models.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Pair
	for _, l := range m.likes {
		if l.TargetType == models.TargetUser && models.LessID(l.ActorID, l.TargetID) &&
			m.exists(l.TargetID, l.ActorID, models.TargetUser) {
			out = append(out, models.NewPair(l.ActorID, l.TargetID))
		}
	}
	return out, nil
}

func (m *memLikeStore) SaveMatchRecord(_ context.Context, rec *models.MatchRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveMatch(rec), nil
}

func (m *memLikeStore) DeleteMatchRecord(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.matches {
		if rec.ID == id {
			m.matches = append(m.matches[:i], m.matches[i+1:]...)
			return nil
		}
	}
	return nil
}

// memProfiles serves both ProfileStore and ProfileFinder
type memProfiles struct {
	profiles []*models.UserProfile
}

func (m *memProfiles) add(p *models.UserProfile) *models.UserProfile {
	m.profiles = append(m.profiles, p)
	return p
}

func (m *memProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.UserProfile, error) {
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, profile.ErrProfileNotFound
}

func (m *memProfiles) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.UserProfile, error) {
	var out []*models.UserProfile
	for _, id := range ids {
		if p, err := m.GetByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProfiles) ListProfiles(_ context.Context) ([]*models.UserProfile, error) {
	out := make([]*models.UserProfile, len(m.profiles))
	copy(out, m.profiles)
	return out, nil
}

func (m *memProfiles) GetMyProfile(_ context.Context, telegramID int64) (*models.UserProfile, error) {
	for _, p := range m.profiles {
		if p.TelegramID == telegramID {
			return p, nil
		}
	}
	return nil, profile.ErrProfileNotFound
}

type memListings struct {
	listings []*models.Listing
}

func (m *memListings) GetByID(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	for _, l := range m.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, listing.ErrListingNotFound
}

func (m *memListings) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error) {
	var out []*models.Listing
	for _, id := range ids {
		if l, err := m.GetByID(ctx, id); err == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

type notification struct {
	a, b uuid.UUID
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) NotifyMatch(a, b *models.UserProfile, _ time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{a: a.ID, b: b.ID})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type stubLimiter struct {
	allow bool
	err   error
}

func (s stubLimiter) Allow(context.Context, uuid.UUID) (bool, error) {
	return s.allow, s.err
}

var telegramSeq int64

func newUser(name string) *models.UserProfile {
	telegramSeq++
	return &models.UserProfile{
		ID:         uuid.New(),
		TelegramID: telegramSeq,
		FirstName:  name,
		Age:        25,
		Gender:     models.GenderUnspecified,
		Latitude:   55.75,
		Longitude:  37.61,
	}
}

func newListing(title string) *models.Listing {
	return &models.Listing{
		ID:       uuid.New(),
		Title:    title,
		Price:    50000,
		IsActive: true,
	}
}

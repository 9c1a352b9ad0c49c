// Package matching records likes between users and listings and derives
// mutual matches from them.
//
// A match between users A and B exists exactly when both directed user likes
// A->B and B->A are stored. Likes are permanent, so for any pair the state
// only moves forward: no like, one-sided like, matched.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/listing"
	"github.com/imadgeboyega/roommate-finder/internal/models"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
)

// ProfileStore is the profile data the engine reads
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.UserProfile, error)
	ListProfiles(ctx context.Context) ([]*models.UserProfile, error)
}

// ListingStore is the listing data the engine reads
type ListingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error)
}

// Notifier is told about new matches
type Notifier interface {
	NotifyMatch(a, b *models.UserProfile, matchedAt time.Time)
}

// LikeResult is the outcome of a like
type LikeResult struct {
	Like    *models.LikeEdge `json:"like"`
	IsMatch bool             `json:"is_match"`
}

// Engine implements likes, candidates and matches on top of the stores
type Engine struct {
	likes    Repository
	profiles ProfileStore
	listings ListingStore
	notifier Notifier
	limiter  Limiter
	log      *logger.Logger
	now      func() time.Time
}

// NewEngine wires an engine. notifier and limiter may be nil.
func NewEngine(likes Repository, profiles ProfileStore, listings ListingStore, notifier Notifier, limiter Limiter, log *logger.Logger) *Engine {
	return &Engine{
		likes:    likes,
		profiles: profiles,
		listings: listings,
		notifier: notifier,
		limiter:  limiter,
		log:      log,
		now:      time.Now,
	}
}

// Like records actorID's like of targetID. A repeated like of the same
// target fails with ErrDuplicateLike and changes nothing. IsMatch is true
// only for the user like that completes a mutual pair.
func (e *Engine) Like(ctx context.Context, actorID, targetID uuid.UUID, targetType models.TargetType) (*LikeResult, error) {
	if !targetType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTargetType, targetType)
	}
	if targetType == models.TargetUser && actorID == targetID {
		return nil, ErrCannotLikeSelf
	}

	target, err := e.resolveTarget(ctx, targetID, targetType)
	if err != nil {
		return nil, err
	}

	// Repeats must not spend the rate limit budget
	exists, err := e.likes.LikeExists(ctx, actorID, targetID, targetType)
	if err != nil {
		return nil, err
	}
	if exists {
		RecordDuplicateLike()
		return nil, &DuplicateLikeError{ActorID: actorID, TargetID: targetID, TargetType: targetType}
	}

	if e.limiter != nil {
		ok, err := e.limiter.Allow(ctx, actorID)
		if err != nil {
			// Limiter outages must not block likes
			e.log.Warn("like rate limiter unavailable", "error", err)
		} else if !ok {
			RecordRateLimitedLike()
			return nil, ErrRateLimited
		}
	}

	like := &models.LikeEdge{
		ID:         uuid.New(),
		ActorID:    actorID,
		TargetID:   targetID,
		TargetType: targetType,
		CreatedAt:  e.now().UTC(),
	}

	matched, err := e.likes.InsertLike(ctx, like)
	if err != nil {
		if errors.Is(err, ErrDuplicateLike) {
			RecordDuplicateLike()
		}
		return nil, err
	}
	RecordLike(targetType)

	if matched {
		RecordMatch()
		e.log.Info("match created", "user1_id", actorID, "user2_id", targetID)
		e.notifyMatch(ctx, actorID, target, like.CreatedAt)
	}

	return &LikeResult{Like: like, IsMatch: matched}, nil
}

// resolveTarget checks the target exists and returns it when it is a user
func (e *Engine) resolveTarget(ctx context.Context, targetID uuid.UUID, targetType models.TargetType) (*models.UserProfile, error) {
	switch targetType {
	case models.TargetUser:
		p, err := e.profiles.GetByID(ctx, targetID)
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrTargetNotFound, targetID)
		}
		return p, err
	default:
		_, err := e.listings.GetByID(ctx, targetID)
		if errors.Is(err, listing.ErrListingNotFound) {
			return nil, fmt.Errorf("%w: listing %s", ErrTargetNotFound, targetID)
		}
		return nil, err
	}
}

func (e *Engine) notifyMatch(ctx context.Context, actorID uuid.UUID, target *models.UserProfile, at time.Time) {
	if e.notifier == nil || target == nil {
		return
	}
	actor, err := e.profiles.GetByID(ctx, actorID)
	if err != nil {
		e.log.Warn("match notification skipped", "profile_id", actorID, "error", err)
		return
	}
	e.notifier.NotifyMatch(actor, target, at)
}

// IsMatched reports whether a and b liked each other
func (e *Engine) IsMatched(ctx context.Context, a, b uuid.UUID) (bool, error) {
	ab, err := e.likes.LikeExists(ctx, a, b, models.TargetUser)
	if err != nil || !ab {
		return false, err
	}
	return e.likes.LikeExists(ctx, b, a, models.TargetUser)
}

// ComputeCandidates returns every profile except userID and the users
// userID already liked, in store order.
func (e *Engine) ComputeCandidates(ctx context.Context, userID uuid.UUID) ([]*models.UserProfile, error) {
	all, err := e.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	liked, err := e.targetSet(ctx, userID, models.TargetUser)
	if err != nil {
		return nil, err
	}

	out := make([]*models.UserProfile, 0, len(all))
	for _, p := range all {
		if p.ID == userID || liked[p.ID] {
			continue
		}
		out = append(out, p)
	}

	RecordCandidates(len(out))
	return out, nil
}

// ComputeMatches returns the profiles userID is mutually matched with,
// ordered by identifier.
func (e *Engine) ComputeMatches(ctx context.Context, userID uuid.UUID) ([]*models.UserProfile, error) {
	liked, err := e.targetSet(ctx, userID, models.TargetUser)
	if err != nil {
		return nil, err
	}
	if len(liked) == 0 {
		return []*models.UserProfile{}, nil
	}

	likedBy, err := e.likes.LikesByTarget(ctx, userID, models.TargetUser)
	if err != nil {
		return nil, err
	}

	var mutual []uuid.UUID
	for _, edge := range likedBy {
		if liked[edge.ActorID] {
			mutual = append(mutual, edge.ActorID)
		}
	}

	matches, err := e.profiles.GetByIDs(ctx, mutual)
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		return models.LessID(matches[i].ID, matches[j].ID)
	})
	return matches, nil
}

// ComputeLikedListings returns the listings userID liked, oldest like first
func (e *Engine) ComputeLikedListings(ctx context.Context, userID uuid.UUID) ([]*models.Listing, error) {
	edges, err := e.likes.LikesByActor(ctx, userID, models.TargetListing)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []*models.Listing{}, nil
	}

	ids := make([]uuid.UUID, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.TargetID)
	}

	found, err := e.listings.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Listing, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}

	out := make([]*models.Listing, 0, len(found))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// LikedListingIDs returns the set of listings userID liked
func (e *Engine) LikedListingIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	return e.targetSet(ctx, userID, models.TargetListing)
}

func (e *Engine) targetSet(ctx context.Context, actorID uuid.UUID, targetType models.TargetType) (map[uuid.UUID]bool, error) {
	edges, err := e.likes.LikesByActor(ctx, actorID, targetType)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(edges))
	for _, edge := range edges {
		set[edge.TargetID] = true
	}
	return set, nil
}

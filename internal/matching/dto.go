package matching

import (
	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/models"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
)

// LikeRequest is the body of POST /likes
type LikeRequest struct {
	TargetID   uuid.UUID `json:"target_id" validate:"required"`
	TargetType string    `json:"target_type" validate:"required,oneof=user listing"`
}

type LikeResponse struct {
	LikeID  uuid.UUID `json:"like_id"`
	IsMatch bool      `json:"is_match"`
}

type CandidatesResponse struct {
	Candidates []*profile.PublicProfile `json:"candidates"`
	Count      int                      `json:"count"`
}

// MatchesResponse carries full profiles, contacts included
type MatchesResponse struct {
	Matches []*models.UserProfile `json:"matches"`
	Count   int                   `json:"count"`
}

type LikedListingsResponse struct {
	Listings []*models.Listing `json:"listings"`
	Count    int               `json:"count"`
}

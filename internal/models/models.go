// internal/models/models.go
// Domain types shared by the geo filter, the stores and the match engine

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Gender of a profile owner
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderUnspecified Gender = "unspecified"
)

// Valid reports whether g is one of the known genders
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnspecified:
		return true
	}
	return false
}

// TargetType is the kind of entity a like points at
type TargetType string

const (
	TargetUser    TargetType = "user"
	TargetListing TargetType = "listing"
)

// Valid reports whether t is a known target type
func (t TargetType) Valid() bool {
	return t == TargetUser || t == TargetListing
}

// UserProfile is a person looking for a room or a roommate.
// Optional search parameters are nil when the user has not set them;
// nil never means zero.
type UserProfile struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TelegramID int64     `json:"telegram_id" db:"telegram_id"`
	Username   *string   `json:"username,omitempty" db:"username"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   *string   `json:"last_name,omitempty" db:"last_name"`
	PhotoURL   *string   `json:"photo_url,omitempty" db:"photo_url"`
	About      *string   `json:"about,omitempty" db:"about"`

	Age    int    `json:"age" db:"age"`
	Gender Gender `json:"gender" db:"gender"`

	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`

	Station        *string  `json:"station,omitempty" db:"station"`
	SearchRadiusKm *float64 `json:"search_radius_km,omitempty" db:"search_radius_km"`
	PriceMin       *int64   `json:"price_min,omitempty" db:"price_min"`
	PriceMax       *int64   `json:"price_max,omitempty" db:"price_max"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Listing is a room or apartment offered for rent
type Listing struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Price     int64     `json:"price" db:"price"`

	Title        string         `json:"title" db:"title"`
	Description  *string        `json:"description,omitempty" db:"description"`
	Address      string         `json:"address" db:"address"`
	Station      *string        `json:"station,omitempty" db:"station"`
	Rooms        int            `json:"rooms" db:"rooms"`
	AreaM2       float64        `json:"area_m2" db:"area_m2"`
	Floor        *int           `json:"floor,omitempty" db:"floor"`
	TotalFloors  *int           `json:"total_floors,omitempty" db:"total_floors"`
	PropertyType string         `json:"property_type" db:"property_type"`
	Photos       pq.StringArray `json:"photos" db:"photos"`
	Amenities    pq.StringArray `json:"amenities" db:"amenities"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LikeEdge is a directed like from a user to a user or a listing.
// At most one edge exists per (ActorID, TargetID, TargetType).
type LikeEdge struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ActorID    uuid.UUID  `json:"actor_id" db:"actor_id"`
	TargetID   uuid.UUID  `json:"target_id" db:"target_id"`
	TargetType TargetType `json:"target_type" db:"target_type"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Pair is an unordered pair of users stored in canonical order (User1ID < User2ID)
type Pair struct {
	User1ID uuid.UUID `json:"user1_id" db:"user1_id"`
	User2ID uuid.UUID `json:"user2_id" db:"user2_id"`
}

// NewPair orders a and b canonically
func NewPair(a, b uuid.UUID) Pair {
	if LessID(b, a) {
		a, b = b, a
	}
	return Pair{User1ID: a, User2ID: b}
}

// Key is a stable string identifier for the pair
func (p Pair) Key() string {
	return p.User1ID.String() + ":" + p.User2ID.String()
}

// MatchRecord is the persisted bookkeeping row for a mutual user like
type MatchRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	User1ID   uuid.UUID `json:"user1_id" db:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id" db:"user2_id"`
	MatchedAt time.Time `json:"matched_at" db:"matched_at"`
}

// Pair returns the users of the record
func (m *MatchRecord) Pair() Pair {
	return NewPair(m.User1ID, m.User2ID)
}

// LessID orders identifiers bytewise, which matches their canonical string order
func LessID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

//internal/profile/models.go

package profile

import (
	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

// CreateProfileRequest is the body of POST /profile
type CreateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=100"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	PhotoURL  *string `json:"photo_url" validate:"omitempty,url"`
	About     *string `json:"about" validate:"omitempty,max=1000"`

	Age    int    `json:"age" validate:"required"`
	Gender string `json:"gender" validate:"required"`

	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`

	Station        *string  `json:"station" validate:"omitempty,max=100"`
	SearchRadiusKm *float64 `json:"search_radius_km"`
	PriceMin       *int64   `json:"price_min"`
	PriceMax       *int64   `json:"price_max"`
}

// UpdateProfileRequest is the body of PUT /profile. Nil fields are left
// unchanged. The clear_* flags reset an optional search setting to unset,
// which the filters treat as no constraint.
type UpdateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=100"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	PhotoURL  *string `json:"photo_url" validate:"omitempty,url"`
	About     *string `json:"about" validate:"omitempty,max=1000"`

	Age    *int    `json:"age"`
	Gender *string `json:"gender"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Station        *string  `json:"station" validate:"omitempty,max=100"`
	SearchRadiusKm *float64 `json:"search_radius_km"`
	PriceMin       *int64   `json:"price_min"`
	PriceMax       *int64   `json:"price_max"`

	ClearStation        bool `json:"clear_station"`
	ClearSearchRadiusKm bool `json:"clear_search_radius_km"`
	ClearPriceMin       bool `json:"clear_price_min"`
	ClearPriceMax       bool `json:"clear_price_max"`
}

// checkClears rejects a field that is both set and cleared
func (req *UpdateProfileRequest) checkClears() error {
	switch {
	case req.ClearStation && req.Station != nil:
		return invalid("station", "cannot be set and cleared at once")
	case req.ClearSearchRadiusKm && req.SearchRadiusKm != nil:
		return invalid("search_radius_km", "cannot be set and cleared at once")
	case req.ClearPriceMin && req.PriceMin != nil:
		return invalid("price_min", "cannot be set and cleared at once")
	case req.ClearPriceMax && req.PriceMax != nil:
		return invalid("price_max", "cannot be set and cleared at once")
	}
	return nil
}

// clearedColumns maps each clearable column to its clear flag
func (req *UpdateProfileRequest) clearedColumns() map[string]bool {
	return map[string]bool{
		"station":          req.ClearStation,
		"search_radius_km": req.ClearSearchRadiusKm,
		"price_min":        req.ClearPriceMin,
		"price_max":        req.ClearPriceMax,
	}
}

// apply copies the set fields of req onto p
func (req *UpdateProfileRequest) apply(p *models.UserProfile) {
	if req.Username != nil {
		p.Username = req.Username
	}
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = req.LastName
	}
	if req.PhotoURL != nil {
		p.PhotoURL = req.PhotoURL
	}
	if req.About != nil {
		p.About = req.About
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.Gender != nil {
		p.Gender = models.Gender(*req.Gender)
	}
	if req.Latitude != nil {
		p.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = *req.Longitude
	}
	if req.Station != nil {
		p.Station = req.Station
	}
	if req.SearchRadiusKm != nil {
		p.SearchRadiusKm = req.SearchRadiusKm
	}
	if req.PriceMin != nil {
		p.PriceMin = req.PriceMin
	}
	if req.PriceMax != nil {
		p.PriceMax = req.PriceMax
	}

	if req.ClearStation {
		p.Station = nil
	}
	if req.ClearSearchRadiusKm {
		p.SearchRadiusKm = nil
	}
	if req.ClearPriceMin {
		p.PriceMin = nil
	}
	if req.ClearPriceMax {
		p.PriceMax = nil
	}
}

// PublicProfile is what other users see before a match: no contact details
type PublicProfile struct {
	ID             uuid.UUID     `json:"id"`
	FirstName      string        `json:"first_name"`
	PhotoURL       *string       `json:"photo_url,omitempty"`
	About          *string       `json:"about,omitempty"`
	Age            int           `json:"age"`
	Gender         models.Gender `json:"gender"`
	Station        *string       `json:"station,omitempty"`
	SearchRadiusKm *float64      `json:"search_radius_km,omitempty"`
	PriceMin       *int64        `json:"price_min,omitempty"`
	PriceMax       *int64        `json:"price_max,omitempty"`
}

// ToPublic strips contact details from p
func ToPublic(p *models.UserProfile) *PublicProfile {
	return &PublicProfile{
		ID:             p.ID,
		FirstName:      p.FirstName,
		PhotoURL:       p.PhotoURL,
		About:          p.About,
		Age:            p.Age,
		Gender:         p.Gender,
		Station:        p.Station,
		SearchRadiusKm: p.SearchRadiusKm,
		PriceMin:       p.PriceMin,
		PriceMax:       p.PriceMax,
	}
}

// ToPublicList converts a slice of profiles
func ToPublicList(ps []*models.UserProfile) []*PublicProfile {
	out := make([]*PublicProfile, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToPublic(p))
	}
	return out
}

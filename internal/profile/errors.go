package profile

import (
	"errors"
	"fmt"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// InvalidProfileError reports the first profile field that violates a rule
type InvalidProfileError struct {
	Field  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
}

func (e *InvalidProfileError) Is(target error) bool {
	return target == ErrInvalidProfile
}

func invalid(field, reason string) error {
	return &InvalidProfileError{Field: field, Reason: reason}
}

// Validate checks the profile rules that must hold before persistence
func Validate(p *models.UserProfile) error {
	if p.FirstName == "" {
		return invalid("first_name", "is required")
	}
	if p.Age < 18 || p.Age > 100 {
		return invalid("age", "must be between 18 and 100")
	}
	if !p.Gender.Valid() {
		return invalid("gender", "must be male, female or unspecified")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return invalid("latitude", "must be between -90 and 90")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return invalid("longitude", "must be between -180 and 180")
	}
	if p.SearchRadiusKm != nil && *p.SearchRadiusKm <= 0 {
		return invalid("search_radius_km", "must be positive")
	}
	if p.PriceMin != nil && *p.PriceMin < 0 {
		return invalid("price_min", "must not be negative")
	}
	if p.PriceMax != nil && *p.PriceMax < 0 {
		return invalid("price_max", "must not be negative")
	}
	if p.PriceMin != nil && p.PriceMax != nil && *p.PriceMin > *p.PriceMax {
		return invalid("price_min", "must not exceed price_max")
	}
	return nil
}

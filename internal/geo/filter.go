package geo

import (
	"context"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

// ResolveReferencePoint returns the coordinate searches are centred on:
// the preferred station when it resolves, otherwise the home coordinate.
// It never fails; a nil lookup behaves like an empty directory.
func ResolveReferencePoint(ctx context.Context, stations StationLookup, user *models.UserProfile) Point {
	if user.Station != nil && *user.Station != "" && stations != nil {
		if p, ok := stations.Lookup(ctx, *user.Station); ok {
			return p
		}
	}
	return HomePoint(user)
}

// HomePoint is the profile's own coordinate
func HomePoint(user *models.UserProfile) Point {
	return Point{Lat: user.Latitude, Lon: user.Longitude}
}

// ListingPoint is the listing's coordinate
func ListingPoint(l *models.Listing) Point {
	return Point{Lat: l.Latitude, Lon: l.Longitude}
}

// FilterListings keeps the listings within the user's search radius of the
// reference point whose price lies inside the user's budget. Bounds the user
// has not set do not constrain. Input order is preserved.
func FilterListings(ctx context.Context, stations StationLookup, listings []*models.Listing, user *models.UserProfile) []*models.Listing {
	ref := ResolveReferencePoint(ctx, stations, user)

	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if !withinRadius(ref, ListingPoint(l), user.SearchRadiusKm) {
			continue
		}
		if !priceInRange(l.Price, user.PriceMin, user.PriceMax) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FilterCandidates narrows potential roommates to those the user can reach
// and who can reach the user: the candidate's home lies within the user's
// radius of the user's reference point, the user's reference point lies
// within the candidate's radius of the candidate's reference point, and the
// two budgets overlap. Input order is preserved.
func FilterCandidates(ctx context.Context, stations StationLookup, candidates []*models.UserProfile, user *models.UserProfile) []*models.UserProfile {
	ref := ResolveReferencePoint(ctx, stations, user)

	out := make([]*models.UserProfile, 0, len(candidates))
	for _, c := range candidates {
		if !withinRadius(ref, HomePoint(c), user.SearchRadiusKm) {
			continue
		}
		theirRef := ResolveReferencePoint(ctx, stations, c)
		if !withinRadius(theirRef, ref, c.SearchRadiusKm) {
			continue
		}
		if !budgetsOverlap(user, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func withinRadius(ref, p Point, radiusKm *float64) bool {
	if radiusKm == nil {
		return true
	}
	return DistanceKm(ref, p) <= *radiusKm
}

func priceInRange(price int64, min, max *int64) bool {
	if min != nil && price < *min {
		return false
	}
	if max != nil && price > *max {
		return false
	}
	return true
}

func budgetsOverlap(a, b *models.UserProfile) bool {
	if a.PriceMax != nil && b.PriceMin != nil && *b.PriceMin > *a.PriceMax {
		return false
	}
	if b.PriceMax != nil && a.PriceMin != nil && *a.PriceMin > *b.PriceMax {
		return false
	}
	return true
}

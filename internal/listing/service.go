package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/geo"
	"github.com/imadgeboyega/roommate-finder/internal/models"
)

var (
	filterDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roommates_listing_filter_duration_seconds",
			Help:    "Time spent loading and geo-filtering listings for one request",
			Buckets: prometheus.DefBuckets,
		},
	)

	filterResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roommates_listing_filter_results",
			Help:    "Number of listings returned by the geo filter",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

var ErrInvalidListing = errors.New("invalid listing")

// ProfileFinder resolves the requesting user
type ProfileFinder interface {
	GetMyProfile(ctx context.Context, telegramID int64) (*models.UserProfile, error)
}

// LikeChecker reports which listings a user has liked
type LikeChecker interface {
	LikedListingIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
}

// NearbyListing is a filtered listing annotated with the viewer's like state
type NearbyListing struct {
	*models.Listing
	DistanceKm float64 `json:"distance_km"`
	IsLiked    bool    `json:"is_liked"`
}

// NearbyResult is the response of a nearby search
type NearbyResult struct {
	Center   geo.Point        `json:"center"`
	Listings []*NearbyListing `json:"listings"`
}

// Service defines listing operations
type Service interface {
	Nearby(ctx context.Context, telegramID int64) (*NearbyResult, error)
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error)
}

type service struct {
	repo     Repository
	profiles ProfileFinder
	likes    LikeChecker
	stations geo.StationLookup
	log      *logger.Logger
}

// NewService creates a listing service
func NewService(repo Repository, profiles ProfileFinder, likes LikeChecker, stations geo.StationLookup, log *logger.Logger) Service {
	return &service{repo: repo, profiles: profiles, likes: likes, stations: stations, log: log}
}

func (s *service) Nearby(ctx context.Context, telegramID int64) (*NearbyResult, error) {
	start := time.Now()
	defer func() { filterDuration.Observe(time.Since(start).Seconds()) }()

	user, err := s.profiles.GetMyProfile(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListListings(ctx, Criteria{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	filtered := geo.FilterListings(ctx, s.stations, all, user)
	filterResultSize.Observe(float64(len(filtered)))

	liked, err := s.likes.LikedListingIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	center := geo.ResolveReferencePoint(ctx, s.stations, user)
	out := make([]*NearbyListing, 0, len(filtered))
	for _, l := range filtered {
		out = append(out, &NearbyListing{
			Listing:    l,
			DistanceKm: geo.DistanceKm(center, geo.ListingPoint(l)),
			IsLiked:    liked[l.ID],
		})
	}

	s.log.Debug("nearby listings", "profile_id", user.ID, "candidates", len(all), "returned", len(out))
	return &NearbyResult{Center: center, Listings: out}, nil
}

func (s *service) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	if l.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidListing)
	}
	if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return nil, fmt.Errorf("%w: coordinate out of range", ErrInvalidListing)
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.CreateListing(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

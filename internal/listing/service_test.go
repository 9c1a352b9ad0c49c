package listing

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/common/utils"
	"github.com/imadgeboyega/roommate-finder/internal/geo"
	"github.com/imadgeboyega/roommate-finder/internal/models"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
)

type memRepository struct {
	listings []*models.Listing
}

func (m *memRepository) CreateListing(_ context.Context, l *models.Listing) error {
	m.listings = append(m.listings, l)
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	for _, l := range m.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, ErrListingNotFound
}

func (m *memRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error) {
	var out []*models.Listing
	for _, id := range ids {
		if l, err := m.GetByID(ctx, id); err == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepository) ListListings(_ context.Context, c Criteria) ([]*models.Listing, error) {
	var out []*models.Listing
	for _, l := range m.listings {
		if c.ActiveOnly && !l.IsActive {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type profileFinder map[int64]*models.UserProfile

func (f profileFinder) GetMyProfile(_ context.Context, telegramID int64) (*models.UserProfile, error) {
	if p, ok := f[telegramID]; ok {
		return p, nil
	}
	return nil, profile.ErrProfileNotFound
}

type likeChecker map[uuid.UUID]bool

func (l likeChecker) LikedListingIDs(context.Context, uuid.UUID) (map[uuid.UUID]bool, error) {
	return l, nil
}

func ptr[T any](v T) *T { return &v }

func northOf(p geo.Point, km float64) geo.Point {
	return geo.Point{Lat: p.Lat + km/(geo.EarthRadiusKm*math.Pi/180), Lon: p.Lon}
}

func newListing(p geo.Point, price int64, active bool) *models.Listing {
	return &models.Listing{ID: uuid.New(), Latitude: p.Lat, Longitude: p.Lon, Price: price, IsActive: active, Title: "Room"}
}

type fixture struct {
	svc      Service
	repo     *memRepository
	near     *models.Listing
	liked    *models.Listing
	pricey   *models.Listing
	far      *models.Listing
	inactive *models.Listing
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stations := geo.DefaultStations()
	sokolniki, ok := stations.Lookup(context.Background(), "Sokolniki")
	require.True(t, ok)

	f := &fixture{repo: &memRepository{}}
	f.near = newListing(northOf(sokolniki, 1), 30000, true)
	f.liked = newListing(northOf(sokolniki, 2.5), 20000, true)
	f.pricey = newListing(northOf(sokolniki, 1), 100000, true)
	f.far = newListing(northOf(sokolniki, 5), 20000, true)
	f.inactive = newListing(northOf(sokolniki, 1), 20000, false)
	f.repo.listings = []*models.Listing{f.near, f.liked, f.pricey, f.far, f.inactive}

	user := &models.UserProfile{
		ID:             uuid.New(),
		TelegramID:     77,
		Latitude:       55.60,
		Longitude:      37.40,
		Station:        ptr("Сокольники"),
		SearchRadiusKm: ptr(3.0),
		PriceMin:       ptr(int64(15000)),
		PriceMax:       ptr(int64(80000)),
	}

	f.svc = NewService(f.repo, profileFinder{77: user}, likeChecker{f.liked.ID: true}, stations, logger.Nop())
	return f
}

func TestNearby_FiltersAndAnnotates(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Nearby(context.Background(), 77)
	require.NoError(t, err)
	require.InDelta(t, 55.7894, res.Center.Lat, 1e-9)

	require.Len(t, res.Listings, 2)
	require.Equal(t, f.near.ID, res.Listings[0].ID)
	require.False(t, res.Listings[0].IsLiked)
	require.InDelta(t, 1.0, res.Listings[0].DistanceKm, 1e-6)

	require.Equal(t, f.liked.ID, res.Listings[1].ID)
	require.True(t, res.Listings[1].IsLiked)
}

func TestNearby_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Nearby(context.Background(), 1)
	require.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestCreateListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.svc.CreateListing(ctx, &models.Listing{Latitude: 55.7, Longitude: 37.6, Price: 25000, IsActive: true})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, l.ID)
	require.WithinDuration(t, time.Now(), l.CreatedAt, time.Minute)

	_, err = f.svc.CreateListing(ctx, &models.Listing{Latitude: 55.7, Longitude: 37.6, Price: -1})
	require.ErrorIs(t, err, ErrInvalidListing)

	_, err = f.svc.CreateListing(ctx, &models.Listing{Latitude: 100, Longitude: 37.6})
	require.ErrorIs(t, err, ErrInvalidListing)
}

func TestHandler_Nearby(t *testing.T) {
	f := newFixture(t)
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithTelegramID(r.Context(), 77)))
		})
	})
	RegisterRoutes(api, NewHandler(f.svc, logger.Nop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Listings []struct {
				ID      uuid.UUID `json:"id"`
				IsLiked bool      `json:"is_liked"`
			} `json:"listings"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Listings, 2)
	require.True(t, resp.Data.Listings[1].IsLiked)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/listings/"+f.far.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/listings/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

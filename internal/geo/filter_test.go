package geo

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

func ptr[T any](v T) *T { return &v }

// northOf returns a point km kilometres due north of p
func northOf(p Point, km float64) Point {
	return Point{Lat: p.Lat + km/(EarthRadiusKm*math.Pi/180), Lon: p.Lon}
}

func listingAt(p Point, price int64) *models.Listing {
	return &models.Listing{ID: uuid.New(), Latitude: p.Lat, Longitude: p.Lon, Price: price, IsActive: true}
}

func userAt(p Point) *models.UserProfile {
	return &models.UserProfile{ID: uuid.New(), Age: 25, Gender: models.GenderUnspecified, Latitude: p.Lat, Longitude: p.Lon}
}

func ids(ls []*models.Listing) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func TestResolveReferencePoint(t *testing.T) {
	ctx := context.Background()
	stations := DefaultStations()
	home := Point{Lat: 55.70, Lon: 37.50}

	u := userAt(home)
	require.Equal(t, home, ResolveReferencePoint(ctx, stations, u))

	u.Station = ptr("Сокольники")
	require.Equal(t, Point{55.7894, 37.6795}, ResolveReferencePoint(ctx, stations, u))

	u.Station = ptr("Unknown Station")
	require.Equal(t, home, ResolveReferencePoint(ctx, stations, u))

	u.Station = ptr("Сокольники")
	require.Equal(t, home, ResolveReferencePoint(ctx, nil, u))
}

func TestFilterListings_RadiusBoundaryInclusive(t *testing.T) {
	ctx := context.Background()
	home := Point{Lat: 55.7558, Lon: 37.6176}
	u := userAt(home)

	l := listingAt(northOf(home, 3.0), 10000)
	d := DistanceKm(home, ListingPoint(l))
	require.InDelta(t, 3.0, d, 1e-9)

	u.SearchRadiusKm = ptr(d)
	require.Len(t, FilterListings(ctx, nil, []*models.Listing{l}, u), 1)

	u.SearchRadiusKm = ptr(3.0)
	far := listingAt(northOf(home, 3.0001), 10000)
	require.Empty(t, FilterListings(ctx, nil, []*models.Listing{far}, u))
}

func TestFilterListings_PriceBoundsInclusive(t *testing.T) {
	ctx := context.Background()
	home := Point{Lat: 55.75, Lon: 37.62}
	u := userAt(home)
	u.PriceMin = ptr(int64(15000))
	u.PriceMax = ptr(int64(80000))

	in := []*models.Listing{
		listingAt(home, 14999),
		listingAt(home, 15000),
		listingAt(home, 50000),
		listingAt(home, 80000),
		listingAt(home, 80001),
	}
	got := FilterListings(ctx, nil, in, u)
	require.Equal(t, ids(in[1:4]), ids(got))
}

func TestFilterListings_UnsetBoundsDoNotConstrain(t *testing.T) {
	ctx := context.Background()
	home := Point{Lat: 55.75, Lon: 37.62}
	u := userAt(home)

	in := []*models.Listing{
		listingAt(northOf(home, 500), 0),
		listingAt(home, 1_000_000),
		listingAt(northOf(home, 1), 30000),
	}
	require.Equal(t, ids(in), ids(FilterListings(ctx, nil, in, u)))

	u.PriceMax = ptr(int64(40000))
	require.Equal(t, []uuid.UUID{in[0].ID, in[2].ID}, ids(FilterListings(ctx, nil, in, u)))
}

func TestFilterListings_PreservesOrderAndHandlesEmpty(t *testing.T) {
	ctx := context.Background()
	home := Point{Lat: 55.75, Lon: 37.62}
	u := userAt(home)
	u.SearchRadiusKm = ptr(2.0)

	require.Empty(t, FilterListings(ctx, nil, nil, u))

	in := []*models.Listing{
		listingAt(northOf(home, 1.5), 1),
		listingAt(northOf(home, 2.5), 2),
		listingAt(northOf(home, 0.5), 3),
		listingAt(northOf(home, 1.0), 4),
	}
	got := FilterListings(ctx, nil, in, u)
	require.Equal(t, []uuid.UUID{in[0].ID, in[2].ID, in[3].ID}, ids(got))
}

func TestFilterListings_SokolnikiScenario(t *testing.T) {
	ctx := context.Background()
	stations := DefaultStations()
	sokolniki, ok := stations.Lookup(ctx, "Sokolniki")
	require.True(t, ok)

	u := userAt(Point{Lat: 55.60, Lon: 37.40})
	u.Station = ptr("Sokolniki")
	u.SearchRadiusKm = ptr(3.0)
	u.PriceMin = ptr(int64(15000))
	u.PriceMax = ptr(int64(80000))

	near := listingAt(northOf(sokolniki, 2.5), 20000)
	nearExpensive := listingAt(northOf(sokolniki, 2.5), 100000)
	far := listingAt(northOf(sokolniki, 5), 20000)

	got := FilterListings(ctx, stations, []*models.Listing{near, nearExpensive, far}, u)
	require.Equal(t, []uuid.UUID{near.ID}, ids(got))
}

func TestFilterCandidates(t *testing.T) {
	ctx := context.Background()
	home := Point{Lat: 55.75, Lon: 37.62}

	me := userAt(home)
	me.SearchRadiusKm = ptr(5.0)
	me.PriceMin = ptr(int64(20000))
	me.PriceMax = ptr(int64(40000))

	nearby := userAt(northOf(home, 2))
	nearby.SearchRadiusKm = ptr(3.0)

	tooFar := userAt(northOf(home, 8))

	shortReach := userAt(northOf(home, 4))
	shortReach.SearchRadiusKm = ptr(1.0)

	pricey := userAt(northOf(home, 1))
	pricey.PriceMin = ptr(int64(50000))

	cheap := userAt(northOf(home, 1))
	cheap.PriceMax = ptr(int64(19999))

	overlapping := userAt(northOf(home, 1))
	overlapping.PriceMin = ptr(int64(35000))
	overlapping.PriceMax = ptr(int64(90000))

	got := FilterCandidates(ctx, nil, []*models.UserProfile{nearby, tooFar, shortReach, pricey, cheap, overlapping}, me)

	gotIDs := make([]uuid.UUID, 0, len(got))
	for _, u := range got {
		gotIDs = append(gotIDs, u.ID)
	}
	require.Equal(t, []uuid.UUID{nearby.ID, overlapping.ID}, gotIDs)
}

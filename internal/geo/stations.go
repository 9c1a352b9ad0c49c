package geo

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
)

// StationLookup resolves a transit station name to its coordinate.
// Implementations report failures as "not found" so reference point
// resolution stays total.
type StationLookup interface {
	Lookup(ctx context.Context, name string) (Point, bool)
}

// NormalizeStationName folds case, surrounding space and "ё" so that
// user-entered names match directory keys.
func NormalizeStationName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "ё", "е")
	return strings.Join(strings.Fields(n), " ")
}

// Station is a directory entry
type Station struct {
	Name  string
	Latin string
	Point Point
}

// StaticStations is an in-memory station directory
type StaticStations struct {
	byName map[string]Point
}

// NewStaticStations indexes stations by normalized Cyrillic and Latin names
func NewStaticStations(stations []Station) *StaticStations {
	s := &StaticStations{byName: make(map[string]Point, len(stations)*2)}
	for _, st := range stations {
		s.byName[NormalizeStationName(st.Name)] = st.Point
		if st.Latin != "" {
			s.byName[NormalizeStationName(st.Latin)] = st.Point
		}
	}
	return s
}

func (s *StaticStations) Lookup(_ context.Context, name string) (Point, bool) {
	p, ok := s.byName[NormalizeStationName(name)]
	return p, ok
}

// RedisStationsKey is the hash holding station overrides as "lat,lon" strings
const RedisStationsKey = "geo:stations"

// RedisStations reads station coordinates from a Redis hash, which lets
// operators add or correct stations without a deploy.
type RedisStations struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisStations(client *redis.Client, log *logger.Logger) *RedisStations {
	return &RedisStations{client: client, log: log}
}

func (r *RedisStations) Lookup(ctx context.Context, name string) (Point, bool) {
	key := NormalizeStationName(name)
	if key == "" {
		return Point{}, false
	}

	val, err := r.client.HGet(ctx, RedisStationsKey, key).Result()
	if err == redis.Nil {
		return Point{}, false
	}
	if err != nil {
		r.log.Warn("station lookup failed", "station", key, "error", err)
		return Point{}, false
	}

	p, ok := parsePoint(val)
	if !ok {
		r.log.Warn("malformed station coordinate", "station", key, "value", val)
	}
	return p, ok
}

// Put stores or replaces a station coordinate
func (r *RedisStations) Put(ctx context.Context, name string, p Point) error {
	return r.client.HSet(ctx, RedisStationsKey, NormalizeStationName(name), formatPoint(p)).Err()
}

// ChainLookup asks each lookup in order and returns the first hit
type ChainLookup []StationLookup

func (c ChainLookup) Lookup(ctx context.Context, name string) (Point, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if p, ok := l.Lookup(ctx, name); ok {
			return p, true
		}
	}
	return Point{}, false
}

func formatPoint(p Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

func parsePoint(s string) (Point, bool) {
	latStr, lonStr, found := strings.Cut(s, ",")
	if !found {
		return Point{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Point{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}

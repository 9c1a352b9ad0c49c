// cmd/seed/main.go
// Fills the store with demo profiles and listings around Moscow metro stations

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/config"
	"github.com/imadgeboyega/roommate-finder/internal/geo"
	"github.com/imadgeboyega/roommate-finder/internal/listing"
	"github.com/imadgeboyega/roommate-finder/internal/models"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
	"github.com/imadgeboyega/roommate-finder/internal/store"
)

var (
	propertyTypes = []string{"apartment", "room", "studio"}
	amenities     = []string{
		"WiFi", "Air conditioning", "Washing machine", "Dishwasher", "Balcony",
		"Parking", "Elevator", "Concierge", "Furniture", "Appliances",
	}
	firstNames = []string{"Anna", "Boris", "Dasha", "Egor", "Irina", "Kirill", "Masha", "Oleg", "Sveta", "Timur"}
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file [env: CONFIG_PATH]")
	users := flag.Int("users", 100, "Number of profiles to create")
	listings := flag.Int("listings", 300, "Number of listings to create")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	spreadKm := flag.Float64("spread-km", 2, "Max distance of generated points from their station")
	flag.Parse()

	if *users < 0 || *listings < 0 {
		log.Fatal("--users and --listings must not be negative")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (%v), using environment variables", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg.Storage, cfg.Storage.RunMigrations, appLog)
	if err != nil {
		appLog.Fatal("failed to open storage", "error", err)
	}
	defer st.Close()

	r := rand.New(rand.NewSource(*seed))
	g := &generator{r: r, spreadKm: *spreadKm}

	profiles := profile.NewService(st.Profiles, appLog)
	created := 0
	for i := 0; i < *users; i++ {
		req := g.profile()
		_, err := profiles.CreateProfile(ctx, 1_000_000_000+r.Int63n(9_000_000_000), req)
		if errors.Is(err, profile.ErrProfileExists) {
			continue
		}
		if err != nil {
			appLog.Fatal("create profile", "error", err)
		}
		created++
	}
	appLog.Info("profiles seeded", "count", created)

	listingService := listing.NewService(st.Listings, profiles, nil, geo.DefaultStations(), appLog)
	for i := 0; i < *listings; i++ {
		if _, err := listingService.CreateListing(ctx, g.listing()); err != nil {
			appLog.Fatal("create listing", "error", err)
		}
	}
	appLog.Info("listings seeded", "count", *listings)
}

type generator struct {
	r        *rand.Rand
	spreadKm float64
}

func (g *generator) station() geo.Station {
	return geo.MoscowMetro[g.r.Intn(len(geo.MoscowMetro))]
}

// near returns a point within spreadKm of p
func (g *generator) near(p geo.Point) geo.Point {
	const kmPerDegree = 111.32
	dLat := (g.r.Float64()*2 - 1) * g.spreadKm / kmPerDegree
	dLon := (g.r.Float64()*2 - 1) * g.spreadKm / kmPerDegree / 0.56 // cos(55.75°)
	return geo.Point{Lat: p.Lat + dLat, Lon: p.Lon + dLon}
}

func (g *generator) profile() *profile.CreateProfileRequest {
	st := g.station()
	home := g.near(st.Point)
	name := firstNames[g.r.Intn(len(firstNames))]
	username := fmt.Sprintf("%s%d", name, g.r.Intn(10000))
	station := st.Name
	radius := float64(3 + g.r.Intn(13))
	priceMin := int64(500 + g.r.Intn(7500))
	priceMax := int64(8000 + g.r.Intn(17000))
	gender := []string{"male", "female"}[g.r.Intn(2)]

	return &profile.CreateProfileRequest{
		Username:       &username,
		FirstName:      name,
		Age:            18 + g.r.Intn(28),
		Gender:         gender,
		Latitude:       &home.Lat,
		Longitude:      &home.Lon,
		Station:        &station,
		SearchRadiusKm: &radius,
		PriceMin:       &priceMin,
		PriceMax:       &priceMax,
	}
}

func (g *generator) listing() *models.Listing {
	st := g.station()
	p := g.near(st.Point)
	propertyType := propertyTypes[g.r.Intn(len(propertyTypes))]
	rooms := 1 + g.r.Intn(4)
	if propertyType == "studio" {
		rooms = 1
	}
	floor := 1 + g.r.Intn(25)
	totalFloors := floor + g.r.Intn(26-floor)
	station := st.Name

	picked := g.r.Perm(len(amenities))[:2+g.r.Intn(7)]
	am := make([]string, 0, len(picked))
	for _, i := range picked {
		am = append(am, amenities[i])
	}
	photos := make([]string, 1+g.r.Intn(5))
	for i := range photos {
		photos[i] = fmt.Sprintf("https://picsum.photos/400/300?random=%d", g.r.Intn(1000))
	}

	return &models.Listing{
		Latitude:     p.Lat,
		Longitude:    p.Lon,
		Price:        int64(500 + g.r.Intn(24500)),
		Title:        fmt.Sprintf("%d-room %s near %s", rooms, propertyType, st.Latin),
		Address:      fmt.Sprintf("Moscow, near %s metro", st.Latin),
		Station:      &station,
		Rooms:        rooms,
		AreaM2:       float64(25 + g.r.Intn(96)),
		Floor:        &floor,
		TotalFloors:  &totalFloors,
		PropertyType: propertyType,
		Photos:       photos,
		Amenities:    am,
		IsActive:     true,
	}
}

// Package store opens the repositories of the configured storage driver.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/roommate-finder/internal/common/database"
	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/config"
	"github.com/imadgeboyega/roommate-finder/internal/listing"
	"github.com/imadgeboyega/roommate-finder/internal/matching"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
)

// Stores bundles the repositories of one backend
type Stores struct {
	Profiles profile.Repository
	Listings listing.Repository
	Likes    matching.Repository

	// SQL is set for the postgres driver only
	SQL *sqlx.DB

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks the backend is reachable
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend connection
func (s *Stores) Close() {
	s.close()
}

// Open connects to the driver named in cfg. Postgres migrations run when
// migrate is true.
func Open(ctx context.Context, cfg config.StorageConfig, migrate bool, log *logger.Logger) (*Stores, error) {
	switch cfg.Driver {
	case "postgres":
		return openPostgres(ctx, cfg.DatabaseURL, migrate, log)
	case "mongo":
		return openMongo(ctx, cfg.MongoURL, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, url string, migrate bool, log *logger.Logger) (*Stores, error) {
	db, err := database.NewPostgresDBFromURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.RunMigrations(ctx, db, log); err != nil {
			db.Close()
			return nil, err
		}
	}
	log.Info("connected to PostgreSQL")

	return &Stores{
		Profiles: profile.NewPostgresRepository(db),
		Listings: listing.NewPostgresRepository(db),
		Likes:    matching.NewPostgresRepository(db),
		SQL:      db,
		ping:     db.PingContext,
		close:    func() { db.Close() },
	}, nil
}

func openMongo(ctx context.Context, uri string, log *logger.Logger) (*Stores, error) {
	db, err := database.NewMongoDatabase(ctx, uri)
	if err != nil {
		return nil, err
	}
	disconnect := func() { _ = db.Client().Disconnect(context.Background()) }

	profiles, err := profile.NewMongoRepository(ctx, db)
	if err != nil {
		disconnect()
		return nil, err
	}
	listings, err := listing.NewMongoRepository(ctx, db)
	if err != nil {
		disconnect()
		return nil, err
	}
	likes, err := matching.NewMongoRepository(ctx, db)
	if err != nil {
		disconnect()
		return nil, err
	}
	log.Info("connected to MongoDB", "database", db.Name())

	return &Stores{
		Profiles: profiles,
		Listings: listings,
		Likes:    likes,
		ping:     func(ctx context.Context) error { return db.Client().Ping(ctx, nil) },
		close:    disconnect,
	}, nil
}

// internal/common/database/migrations.go
// Idempotent schema setup for the PostgreSQL backend

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		telegram_id BIGINT NOT NULL UNIQUE,
		username VARCHAR(100),
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100),
		photo_url TEXT,
		about TEXT,
		age INTEGER NOT NULL CHECK (age BETWEEN 18 AND 100),
		gender VARCHAR(20) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		station VARCHAR(100),
		search_radius_km DOUBLE PRECISION CHECK (search_radius_km > 0),
		price_min BIGINT CHECK (price_min >= 0),
		price_max BIGINT CHECK (price_max >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS listings (
		id UUID PRIMARY KEY,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		title VARCHAR(200) NOT NULL,
		description TEXT,
		address TEXT NOT NULL DEFAULT '',
		station VARCHAR(100),
		rooms INTEGER NOT NULL DEFAULT 1,
		area_m2 DOUBLE PRECISION NOT NULL DEFAULT 0,
		floor INTEGER,
		total_floors INTEGER,
		property_type VARCHAR(30) NOT NULL DEFAULT 'apartment',
		photos TEXT[] NOT NULL DEFAULT '{}',
		amenities TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS likes (
		id UUID PRIMARY KEY,
		actor_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		target_id UUID NOT NULL,
		target_type VARCHAR(10) NOT NULL CHECK (target_type IN ('user', 'listing')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT unique_like_triple UNIQUE (actor_id, target_id, target_type)
	)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		user1_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		user2_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		matched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT unique_match_pair UNIQUE (user1_id, user2_id),
		CONSTRAINT canonical_match_pair CHECK (user1_id < user2_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_listings_active ON listings(is_active, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_target ON likes(target_id, target_type)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_actor_created ON likes(actor_id, target_type, created_at)`,
}

// RunMigrations applies the schema in order. Every statement is idempotent.
func RunMigrations(ctx context.Context, db *sqlx.DB, log *logger.Logger) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		log.Debug("migration applied", "step", i+1, "total", len(migrations))
	}
	log.Info("migrations complete", "count", len(migrations))
	return nil
}

// TableCounts returns row counts for the application tables
func TableCounts(ctx context.Context, db *sqlx.DB) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, table := range []string{"profiles", "listings", "likes", "matches"} {
		var n int64
		if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

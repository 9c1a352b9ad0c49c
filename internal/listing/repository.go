package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

var ErrListingNotFound = errors.New("listing not found")

// Criteria narrows what the store returns before the geo filter runs
type Criteria struct {
	ActiveOnly bool
	Limit      int
}

// Repository defines the listing store
type Repository interface {
	CreateListing(ctx context.Context, l *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error)
	// ListListings returns listings in creation order
	ListListings(ctx context.Context, c Criteria) ([]*models.Listing, error)
}

const listingColumns = `id, latitude, longitude, price, title, description, address, station,
	rooms, area_m2, floor, total_floors, property_type, photos, amenities, is_active, created_at`

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL listing store
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateListing(ctx context.Context, l *models.Listing) error {
	if l.Photos == nil {
		l.Photos = pq.StringArray{}
	}
	if l.Amenities == nil {
		l.Amenities = pq.StringArray{}
	}

	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES (:id, :latitude, :longitude, :price, :title, :description, :address, :station,
			:rooms, :area_m2, :floor, :total_floors, :property_type, :photos, :amenities, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var l models.Listing
	err := r.db.GetContext(ctx, &l, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &l, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error) {
	if len(ids) == 0 {
		return []*models.Listing{}, nil
	}
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	var listings []*models.Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = ANY($1::uuid[]) ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &listings, query, pq.Array(strIDs)); err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}
	return listings, nil
}

func (r *postgresRepository) ListListings(ctx context.Context, c Criteria) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings`
	var args []interface{}
	if c.ActiveOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at, id`
	if c.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, c.Limit)
	}

	var listings []*models.Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/imadgeboyega/roommate-finder/internal/common/database"
	"github.com/imadgeboyega/roommate-finder/internal/models"
)

// Repository defines the profile store
type Repository interface {
	CreateProfile(ctx context.Context, p *models.UserProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.UserProfile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.UserProfile, error)
	// ListProfiles returns every profile in creation order
	ListProfiles(ctx context.Context) ([]*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*models.UserProfile, error)
}

const profileColumns = `id, telegram_id, username, first_name, last_name, photo_url, about,
	age, gender, latitude, longitude, station, search_radius_km, price_min, price_max,
	created_at, updated_at`

const uniqueViolation = "23505"

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (:id, :telegram_id, :username, :first_name, :last_name, :photo_url, :about,
			:age, :gender, :latitude, :longitude, :station, :search_radius_km, :price_min, :price_max,
			:created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var p models.UserProfile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE telegram_id = $1`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.UserProfile, error) {
	if len(ids) == 0 {
		return []*models.UserProfile{}, nil
	}

	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	var profiles []*models.UserProfile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1::uuid[]) ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &profiles, query, pq.Array(strIDs)); err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	return profiles, nil
}

func (r *postgresRepository) ListProfiles(ctx context.Context) ([]*models.UserProfile, error) {
	var profiles []*models.UserProfile
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*models.UserProfile, error) {
	var setClauses []string
	var args []interface{}
	argCount := 1

	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if req.Username != nil {
		set("username", *req.Username)
	}
	if req.FirstName != nil {
		set("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		set("last_name", *req.LastName)
	}
	if req.PhotoURL != nil {
		set("photo_url", *req.PhotoURL)
	}
	if req.About != nil {
		set("about", *req.About)
	}
	if req.Age != nil {
		set("age", *req.Age)
	}
	if req.Gender != nil {
		set("gender", *req.Gender)
	}
	if req.Latitude != nil {
		set("latitude", *req.Latitude)
	}
	if req.Longitude != nil {
		set("longitude", *req.Longitude)
	}
	if req.Station != nil {
		set("station", *req.Station)
	}
	if req.SearchRadiusKm != nil {
		set("search_radius_km", *req.SearchRadiusKm)
	}
	if req.PriceMin != nil {
		set("price_min", *req.PriceMin)
	}
	if req.PriceMax != nil {
		set("price_max", *req.PriceMax)
	}
	for column, clear := range req.clearedColumns() {
		if clear {
			set(column, nil)
		}
	}

	// Always update updated_at
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE profiles
		SET %s
		WHERE id = $%d`,
		strings.Join(setClauses, ", "),
		argCount,
	)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	n, err := database.RowsAffected(res)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if n == 0 {
		return nil, ErrProfileNotFound
	}

	return r.GetByID(ctx, id)
}

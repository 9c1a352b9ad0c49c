package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/roommate-finder/internal/common/database"
	"github.com/imadgeboyega/roommate-finder/internal/models"
)

// Repository is the like store
type Repository interface {
	// InsertLike stores the edge unless the same triple exists, in which case
	// it returns a DuplicateLikeError. For a user edge whose reverse edge is
	// already stored it records the pair's MatchRecord in the same atomic
	// operation and reports matched. Only one of two concurrent reciprocal
	// likes can report matched.
	InsertLike(ctx context.Context, like *models.LikeEdge) (matched bool, err error)
	LikeExists(ctx context.Context, actorID, targetID uuid.UUID, targetType models.TargetType) (bool, error)
	// LikesByActor and LikesByTarget return edges oldest first
	LikesByActor(ctx context.Context, actorID uuid.UUID, targetType models.TargetType) ([]*models.LikeEdge, error)
	LikesByTarget(ctx context.Context, targetID uuid.UUID, targetType models.TargetType) ([]*models.LikeEdge, error)

	MatchRecords(ctx context.Context) ([]*models.MatchRecord, error)
	MutualPairs(ctx context.Context) ([]models.Pair, error)
	SaveMatchRecord(ctx context.Context, rec *models.MatchRecord) (bool, error)
	DeleteMatchRecord(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a PostgreSQL like store
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) InsertLike(ctx context.Context, like *models.LikeEdge) (bool, error) {
	var matched bool

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		matched = false

		// Serialize reciprocal likes of one pair so the reverse-edge check
		// below sees a committed edge from the other side.
		if like.TargetType == models.TargetUser {
			pair := models.NewPair(like.ActorID, like.TargetID)
			if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, pair.Key()); err != nil {
				return fmt.Errorf("failed to lock pair: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO likes (id, actor_id, target_id, target_type, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (actor_id, target_id, target_type) DO NOTHING`,
			like.ID, like.ActorID, like.TargetID, like.TargetType, like.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}
		n, err := database.RowsAffected(res)
		if err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}
		if n == 0 {
			return duplicateOf(like)
		}

		if like.TargetType != models.TargetUser {
			return nil
		}

		var reverse bool
		err = tx.GetContext(ctx, &reverse, `
			SELECT EXISTS(
				SELECT 1 FROM likes
				WHERE actor_id = $1 AND target_id = $2 AND target_type = 'user'
			)`, like.TargetID, like.ActorID)
		if err != nil {
			return fmt.Errorf("failed to check reverse like: %w", err)
		}
		if !reverse {
			return nil
		}

		pair := models.NewPair(like.ActorID, like.TargetID)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO matches (id, user1_id, user2_id, matched_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user1_id, user2_id) DO NOTHING`,
			uuid.New(), pair.User1ID, pair.User2ID, like.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to record match: %w", err)
		}

		matched = true
		return nil
	})

	return matched, err
}

func (r *postgresRepository) LikeExists(ctx context.Context, actorID, targetID uuid.UUID, targetType models.TargetType) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM likes
			WHERE actor_id = $1 AND target_id = $2 AND target_type = $3
		)`, actorID, targetID, targetType)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

const likeColumns = `id, actor_id, target_id, target_type, created_at`

func (r *postgresRepository) LikesByActor(ctx context.Context, actorID uuid.UUID, targetType models.TargetType) ([]*models.LikeEdge, error) {
	var likes []*models.LikeEdge
	err := r.db.SelectContext(ctx, &likes, `
		SELECT `+likeColumns+` FROM likes
		WHERE actor_id = $1 AND target_type = $2
		ORDER BY created_at, id`, actorID, targetType)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes by actor: %w", err)
	}
	return likes, nil
}

func (r *postgresRepository) LikesByTarget(ctx context.Context, targetID uuid.UUID, targetType models.TargetType) ([]*models.LikeEdge, error) {
	var likes []*models.LikeEdge
	err := r.db.SelectContext(ctx, &likes, `
		SELECT `+likeColumns+` FROM likes
		WHERE target_id = $1 AND target_type = $2
		ORDER BY created_at, id`, targetID, targetType)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes by target: %w", err)
	}
	return likes, nil
}

func (r *postgresRepository) MatchRecords(ctx context.Context) ([]*models.MatchRecord, error) {
	var recs []*models.MatchRecord
	err := r.db.SelectContext(ctx, &recs, `
		SELECT id, user1_id, user2_id, matched_at FROM matches
		ORDER BY matched_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return recs, nil
}

func (r *postgresRepository) MutualPairs(ctx context.Context) ([]models.Pair, error) {
	var pairs []models.Pair
	err := r.db.SelectContext(ctx, &pairs, `
		SELECT a.actor_id AS user1_id, a.target_id AS user2_id
		FROM likes a
		JOIN likes b
			ON b.actor_id = a.target_id
			AND b.target_id = a.actor_id
			AND b.target_type = 'user'
		WHERE a.target_type = 'user' AND a.actor_id < a.target_id
		ORDER BY a.actor_id, a.target_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mutual pairs: %w", err)
	}
	return pairs, nil
}

func (r *postgresRepository) SaveMatchRecord(ctx context.Context, rec *models.MatchRecord) (bool, error) {
	pair := rec.Pair()
	if rec.MatchedAt.IsZero() {
		rec.MatchedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (id, user1_id, user2_id, matched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user1_id, user2_id) DO NOTHING`,
		rec.ID, pair.User1ID, pair.User2ID, rec.MatchedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save match: %w", err)
	}
	n, err := database.RowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("failed to save match: %w", err)
	}
	return n == 1, nil
}

func (r *postgresRepository) DeleteMatchRecord(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}

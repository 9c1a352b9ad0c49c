package matching

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/roommate-finder/internal/common/database/dbtest"
	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/models"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
)

// Run with:
//   GO_TEST_INTEGRATION=1 go test ./internal/matching -run Integration -count=1

func seedProfiles(t *testing.T, repo profile.Repository, n int) []*models.UserProfile {
	t.Helper()
	out := make([]*models.UserProfile, 0, n)
	for i := 0; i < n; i++ {
		p := newUser(fmt.Sprintf("user-%d", i))
		p.CreatedAt = time.Now().UTC()
		p.UpdatedAt = p.CreatedAt
		require.NoError(t, repo.CreateProfile(context.Background(), p))
		out = append(out, p)
	}
	return out
}

func TestIntegration_PostgresLikesAndMatches(t *testing.T) {
	db := dbtest.StartPostgres(t)
	ctx := context.Background()
	users := seedProfiles(t, profile.NewPostgresRepository(db), 2)
	a, b := users[0], users[1]

	engine := NewEngine(NewPostgresRepository(db), profile.NewPostgresRepository(db), &memListings{}, nil, nil, logger.Nop())

	res, err := engine.Like(ctx, a.ID, b.ID, models.TargetUser)
	require.NoError(t, err)
	assert.False(t, res.IsMatch)

	_, err = engine.Like(ctx, a.ID, b.ID, models.TargetUser)
	require.ErrorIs(t, err, ErrDuplicateLike)

	res, err = engine.Like(ctx, b.ID, a.ID, models.TargetUser)
	require.NoError(t, err)
	assert.True(t, res.IsMatch)

	matches, err := engine.ComputeMatches(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, b.ID, matches[0].ID)

	repo := NewPostgresRepository(db)
	records, err := repo.MatchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.NewPair(a.ID, b.ID), records[0].Pair())

	pairs, err := repo.MutualPairs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Pair{models.NewPair(a.ID, b.ID)}, pairs)
}

func TestIntegration_PostgresConcurrentReciprocalLikes(t *testing.T) {
	db := dbtest.StartPostgres(t)
	ctx := context.Background()
	repo := NewPostgresRepository(db)

	for i := 0; i < 10; i++ {
		users := seedProfiles(t, profile.NewPostgresRepository(db), 2)
		a, b := users[0], users[1]

		var wg sync.WaitGroup
		matched := make([]bool, 2)
		errs := make([]error, 2)
		for j, e := range []*models.LikeEdge{edge(a.ID, b.ID), edge(b.ID, a.ID)} {
			wg.Add(1)
			go func(j int, e *models.LikeEdge) {
				defer wg.Done()
				matched[j], errs[j] = repo.InsertLike(ctx, e)
			}(j, e)
		}
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		assert.NotEqual(t, matched[0], matched[1])
	}

	records, err := repo.MatchRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 10)
}

func TestIntegration_PostgresReconciler(t *testing.T) {
	db := dbtest.StartPostgres(t)
	ctx := context.Background()
	repo := NewPostgresRepository(db)
	users := seedProfiles(t, profile.NewPostgresRepository(db), 2)
	a, b := users[0], users[1]

	_, err := repo.InsertLike(ctx, edge(a.ID, b.ID))
	require.NoError(t, err)
	matched, err := repo.InsertLike(ctx, edge(b.ID, a.ID))
	require.NoError(t, err)
	require.True(t, matched)

	_, err = db.ExecContext(ctx, `DELETE FROM matches`)
	require.NoError(t, err)

	report, err := NewReconciler(repo, logger.Nop()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Missing)

	records, err := repo.MatchRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestIntegration_PostgresMatchesSurviveReconciler(t *testing.T) {
	db := dbtest.StartPostgres(t)
	repo := NewPostgresRepository(db)
	users := seedProfiles(t, profile.NewPostgresRepository(db), 40)

	assertMatchesSurviveReconciler(t, repo, profile.NewPostgresRepository(db), users)
}

// assertMatchesSurviveReconciler likes pairs of users back and forth while
// the reconciler runs in a loop. Every pair must report its match once and
// keep exactly one record.
func assertMatchesSurviveReconciler(t *testing.T, repo Repository, profiles ProfileStore, users []*models.UserProfile) {
	t.Helper()
	ctx := context.Background()
	engine := NewEngine(repo, profiles, &memListings{}, nil, nil, logger.Nop())
	reconciler := NewReconciler(repo, logger.Nop())

	done := make(chan struct{})
	reconcileErr := make(chan error, 1)
	go func() {
		defer close(reconcileErr)
		for {
			select {
			case <-done:
				return
			default:
			}
			if _, err := reconciler.Run(ctx); err != nil {
				reconcileErr <- err
				return
			}
		}
	}()

	pairs := len(users) / 2
	matches := 0
	for i := 0; i < pairs; i++ {
		a, b := users[2*i], users[2*i+1]
		res, err := engine.Like(ctx, a.ID, b.ID, models.TargetUser)
		require.NoError(t, err)
		require.False(t, res.IsMatch)

		res, err = engine.Like(ctx, b.ID, a.ID, models.TargetUser)
		require.NoError(t, err)
		if res.IsMatch {
			matches++
		}
	}
	close(done)
	require.NoError(t, <-reconcileErr)
	assert.Equal(t, pairs, matches)

	report, err := reconciler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ReconcileReport{}, report)

	records, err := repo.MatchRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, pairs)
}

package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/models"
)

// ReconcileReport counts the match records a run repaired
type ReconcileReport struct {
	Missing  int `json:"missing"`
	Orphaned int `json:"orphaned"`
}

// Reconciler keeps the match records equal to the set of mutual like pairs.
// Records are bookkeeping only, matches are always computed from likes.
type Reconciler struct {
	repo Repository
	log  *logger.Logger
}

func NewReconciler(repo Repository, log *logger.Logger) *Reconciler {
	return &Reconciler{repo: repo, log: log}
}

// Run adds a record for each mutual pair without one and deletes records
// whose pair is not mutual.
//
// Records are read before likes. Likes are never removed, so every pair
// that was mutual when the records were read is still in the pair list.
func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	records, err := r.repo.MatchRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	pairs, err := r.repo.MutualPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	mutual := make(map[models.Pair]bool, len(pairs))
	for _, p := range pairs {
		mutual[p] = true
	}

	report := &ReconcileReport{}
	recorded := make(map[models.Pair]bool, len(records))
	for _, rec := range records {
		p := rec.Pair()
		if recorded[p] {
			if err := r.deleteRecord(ctx, rec, report); err != nil {
				return report, err
			}
			continue
		}
		if !mutual[p] {
			// The pair list may be stale, confirm against the likes
			ok, err := r.isMutual(ctx, p)
			if err != nil {
				return report, fmt.Errorf("reconcile: %w", err)
			}
			if !ok {
				if err := r.deleteRecord(ctx, rec, report); err != nil {
					return report, err
				}
				continue
			}
		}
		recorded[p] = true
	}

	for _, p := range pairs {
		if recorded[p] {
			continue
		}
		created, err := r.repo.SaveMatchRecord(ctx, &models.MatchRecord{
			ID:        uuid.New(),
			User1ID:   p.User1ID,
			User2ID:   p.User2ID,
			MatchedAt: time.Now().UTC(),
		})
		if err != nil {
			return report, fmt.Errorf("reconcile: %w", err)
		}
		recorded[p] = true
		if created {
			report.Missing++
		}
	}

	RecordReconcileRepair("missing", report.Missing)
	RecordReconcileRepair("orphaned", report.Orphaned)
	if report.Missing > 0 || report.Orphaned > 0 {
		r.log.Warn("match records repaired", "missing", report.Missing, "orphaned", report.Orphaned)
	}
	return report, nil
}

func (r *Reconciler) deleteRecord(ctx context.Context, rec *models.MatchRecord, report *ReconcileReport) error {
	if err := r.repo.DeleteMatchRecord(ctx, rec.ID); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	report.Orphaned++
	return nil
}

func (r *Reconciler) isMutual(ctx context.Context, p models.Pair) (bool, error) {
	ab, err := r.repo.LikeExists(ctx, p.User1ID, p.User2ID, models.TargetUser)
	if err != nil || !ab {
		return false, err
	}
	return r.repo.LikeExists(ctx, p.User2ID, p.User1ID, models.TargetUser)
}

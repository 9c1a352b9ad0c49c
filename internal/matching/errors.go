package matching

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

var (
	ErrDuplicateLike     = errors.New("already liked")
	ErrTargetNotFound    = errors.New("like target not found")
	ErrInvalidTargetType = errors.New("invalid target type")
	ErrCannotLikeSelf    = errors.New("cannot like yourself")
	ErrRateLimited       = errors.New("too many likes, please slow down")
)

// DuplicateLikeError is returned when the (actor, target, type) edge already exists
type DuplicateLikeError struct {
	ActorID    uuid.UUID
	TargetID   uuid.UUID
	TargetType models.TargetType
}

func (e *DuplicateLikeError) Error() string {
	return fmt.Sprintf("%s already liked %s %s", e.ActorID, e.TargetType, e.TargetID)
}

func (e *DuplicateLikeError) Is(target error) bool {
	return target == ErrDuplicateLike
}

func duplicateOf(like *models.LikeEdge) error {
	return &DuplicateLikeError{ActorID: like.ActorID, TargetID: like.TargetID, TargetType: like.TargetType}
}

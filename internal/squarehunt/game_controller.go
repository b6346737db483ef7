package squarehunt

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/squarehunt-backend/internal/apperror"
	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
)

// MakeMove applies connID's guess to the room. On success the turn has
// passed to the other player and next has supplied the new target.
func MakeMove(room *entity.Room, connID string, square entity.Square, now time.Time, next ChallengeFunc) (entity.MoveResult, error) {
	if err := room.ConfirmActiveState(); err != nil {
		return entity.MoveResult{}, err
	}

	if err := validateMove(room, connID); err != nil {
		return entity.MoveResult{}, fmt.Errorf("invalid move: %w", err)
	}

	mover := room.CurrentPlayer()
	result := entity.MoveResult{
		Player:  mover.Name,
		Correct: square == room.TargetSquare,
	}

	if result.Correct {
		result.PointsEarned = Points(now.Sub(room.TargetTimestamp), mover.Mistakes)
		mover.RecordCorrect(result.PointsEarned)
	} else {
		mover.RecordMistake()
	}

	room.AdvanceTurn(next(), now)

	return result, nil
}

// validateMove - checks the mover holds the turn. Any square is accepted;
// one that is not the target is a wrong answer.
func validateMove(room *entity.Room, connID string) error {
	if room.PlayerIndex(connID) == -1 {
		return apperror.ErrNotInRoom
	}

	if room.CurrentPlayer().ConnID != connID {
		return apperror.ErrNotYourTurn
	}

	return nil
}

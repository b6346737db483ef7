package squarehunt

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
)

// ChallengeFunc produces the next target square.
type ChallengeFunc func() entity.Square

// RandomSquare draws a square uniformly from the 8x8 board.
func RandomSquare() entity.Square {
	return entity.SquareAt(rand.IntN(len(entity.Files)), rand.IntN(len(entity.Ranks))) //nolint: gosec // not security sensitive
}

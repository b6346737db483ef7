package squarehunt

import "time"

const (
	MaxPoints = 5
	MinPoints = 1

	maxTimePenalty    = 3
	maxMistakePenalty = 2
	penaltyInterval   = 2 * time.Second
)

// Points scores a correct answer given after elapsed time by a player with
// the given count of consecutive mistakes.
func Points(elapsed time.Duration, mistakes int) int {
	timePenalty := 0
	if elapsed > 0 {
		timePenalty = min(maxTimePenalty, int(elapsed/penaltyInterval))
	}

	mistakePenalty := min(maxMistakePenalty, max(0, mistakes))

	return max(MinPoints, MaxPoints-timePenalty-mistakePenalty)
}

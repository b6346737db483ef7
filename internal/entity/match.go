package entity

import "time"

const ReasonForfeit = "forfeit"

// MatchResult is the archived outcome of a finished room.
type MatchResult struct {
	ID          string         `json:"id"`
	RoomID      string         `json:"room_id"`
	Winner      string         `json:"winner"`
	Reason      string         `json:"reason"`
	FinalScores map[string]int `json:"final_scores"`
	Turns       int            `json:"turns"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     time.Time      `json:"ended_at"`
}

func NewForfeitResult(room *Room, winner *Player, now time.Time) *MatchResult {
	return &MatchResult{
		ID:          room.MatchID,
		RoomID:      room.ID,
		Winner:      winner.Name,
		Reason:      ReasonForfeit,
		FinalScores: room.Scores(),
		Turns:       room.Turns,
		StartedAt:   room.StartedAt,
		EndedAt:     now,
	}
}

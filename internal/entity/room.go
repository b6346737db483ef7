package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rocketscienceinc/squarehunt-backend/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusActive  = "active"
	StatusEnded   = "ended"

	MaxPlayers = 2

	duplicateNameSuffix = "_2"
)

var ErrUnknownRoomStatus = errors.New("unknown room status")

type Room struct {
	ID                 string    `json:"id"`
	MatchID            string    `json:"match_id,omitempty"`
	Players            []*Player `json:"players"`
	CurrentPlayerIndex int       `json:"current_player_index"`
	TargetSquare       Square    `json:"target_square"`
	TargetTimestamp    time.Time `json:"target_timestamp"`
	Status             string    `json:"status"`
	Turns              int       `json:"turns"`
	CreatedAt          time.Time `json:"created_at"`
	StartedAt          time.Time `json:"started_at,omitempty"`
}

// NewRoom creates a waiting room seating its first player.
func NewRoom(id string, first *Player, target Square, now time.Time) *Room {
	return &Room{
		ID:              id,
		Players:         []*Player{first},
		TargetSquare:    target,
		TargetTimestamp: now,
		Status:          StatusWaiting,
		CreatedAt:       now,
	}
}

// SanitizeRoomName keeps only ASCII letters and digits, lowercased.
func SanitizeRoomName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}

	return b.String()
}

// Seat adds the second player and starts the game. The first target keeps
// the timestamp it got when the room was created. The returned player
// carries the name actually assigned, which differs from the requested one
// on a collision.
func (that *Room) Seat(player *Player, now time.Time) (*Player, error) {
	switch {
	case that.IsEnded():
		return nil, apperror.ErrGameFinished
	case len(that.Players) >= MaxPlayers, that.IsActive():
		return nil, apperror.ErrRoomFull
	}

	if that.HasName(player.Name) {
		player.Name += duplicateNameSuffix
	}

	that.Players = append(that.Players, player)
	that.Status = StatusActive
	that.CurrentPlayerIndex = 0
	that.StartedAt = now

	return player, nil
}

func (that *Room) HasName(name string) bool {
	for _, p := range that.Players {
		if p.Name == name {
			return true
		}
	}

	return false
}

// PlayerIndex returns the seat of connID, or -1.
func (that *Room) PlayerIndex(connID string) int {
	for i, p := range that.Players {
		if p.ConnID == connID {
			return i
		}
	}

	return -1
}

func (that *Room) CurrentPlayer() *Player {
	if that.CurrentPlayerIndex < 0 || that.CurrentPlayerIndex >= len(that.Players) {
		return nil
	}

	return that.Players[that.CurrentPlayerIndex]
}

// Opponent returns the other seated player, or nil while waiting.
func (that *Room) Opponent(connID string) *Player {
	idx := that.PlayerIndex(connID)
	if idx == -1 || len(that.Players) < MaxPlayers {
		return nil
	}

	return that.Players[(idx+1)%MaxPlayers]
}

func (that *Room) AdvanceTurn(target Square, now time.Time) {
	that.CurrentPlayerIndex = (that.CurrentPlayerIndex + 1) % MaxPlayers
	that.TargetSquare = target
	that.TargetTimestamp = now
	that.Turns++
}

func (that *Room) Scores() map[string]int {
	scores := make(map[string]int, len(that.Players))
	for _, p := range that.Players {
		scores[p.Name] = p.Score
	}

	return scores
}

func (that *Room) End() {
	that.Status = StatusEnded
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Room) IsEnded() bool {
	return that.Status == StatusEnded
}

func (that *Room) ConfirmActiveState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsEnded():
		return apperror.ErrGameFinished
	case that.IsActive():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownRoomStatus, that.Status)
	}
}

package entity

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/squarehunt-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestSanitizeRoomName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces and punctuation are stripped", in: "My Room! 2024", want: "myroom2024"},
		{name: "only punctuation becomes empty", in: "!!!", want: ""},
		{name: "already clean", in: "lobby1", want: "lobby1"},
		{name: "non ascii letters are dropped", in: "Café-Über", want: "cafber"},
		{name: "underscores and dashes are dropped", in: "a_b-c", want: "abc"},
		{name: "empty input", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeRoomName(tt.in))
		})
	}
}

func TestRoom_Seat(t *testing.T) {
	t.Run("Second player starts the game", func(t *testing.T) {
		// Given: a waiting room with one player
		room := NewRoom("lobby", NewPlayer("c1", "Alice"), "e4", startTime)

		// When: a second player is seated
		later := startTime.Add(5 * time.Second)
		seated, err := room.Seat(NewPlayer("c2", "Bob"), later)

		// Then: the room is active with the first joiner to move
		require.NoError(t, err)
		assert.Equal(t, "Bob", seated.Name)
		assert.True(t, room.IsActive())
		assert.Equal(t, 0, room.CurrentPlayerIndex)
		assert.Equal(t, "Alice", room.CurrentPlayer().Name)
		assert.Equal(t, startTime, room.TargetTimestamp)
		assert.Equal(t, later, room.StartedAt)
		assert.Equal(t, Square("e4"), room.TargetSquare)
	})

	t.Run("Colliding name gets a suffix", func(t *testing.T) {
		// Given: a waiting room with Alice
		room := NewRoom("lobby", NewPlayer("c1", "Alice"), "e4", startTime)

		// When: another Alice joins
		seated, err := room.Seat(NewPlayer("c2", "Alice"), startTime)

		// Then: the newcomer is renamed
		require.NoError(t, err)
		assert.Equal(t, "Alice_2", seated.Name)
		assert.Equal(t, "Alice", room.Players[0].Name)
	})

	t.Run("Full room rejects a third player", func(t *testing.T) {
		// Given: an active room
		room := NewRoom("lobby", NewPlayer("c1", "Alice"), "e4", startTime)
		_, err := room.Seat(NewPlayer("c2", "Bob"), startTime)
		require.NoError(t, err)

		// When: a third player tries to sit
		_, err = room.Seat(NewPlayer("c3", "Carol"), startTime)

		// Then: ErrRoomFull is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Len(t, room.Players, 2)
	})

	t.Run("Ended room rejects players", func(t *testing.T) {
		// Given: an ended room
		room := NewRoom("lobby", NewPlayer("c1", "Alice"), "e4", startTime)
		room.End()

		// When: a player tries to sit
		_, err := room.Seat(NewPlayer("c2", "Bob"), startTime)

		// Then: ErrGameFinished is returned
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestRoom_Lookup(t *testing.T) {
	room := NewRoom("lobby", NewPlayer("c1", "Alice"), "e4", startTime)

	assert.Equal(t, 0, room.PlayerIndex("c1"))
	assert.Equal(t, -1, room.PlayerIndex("c2"))
	assert.Nil(t, room.Opponent("c1"), "no opponent while waiting")

	_, err := room.Seat(NewPlayer("c2", "Bob"), startTime)
	require.NoError(t, err)

	assert.Equal(t, "Bob", room.Opponent("c1").Name)
	assert.Equal(t, "Alice", room.Opponent("c2").Name)
	assert.Nil(t, room.Opponent("c3"))
}

func TestRoom_AdvanceTurn(t *testing.T) {
	// Given: an active room
	room := NewRoom("lobby", NewPlayer("c1", "Alice"), "e4", startTime)
	_, err := room.Seat(NewPlayer("c2", "Bob"), startTime)
	require.NoError(t, err)

	// When: the turn advances twice
	room.AdvanceTurn("a1", startTime.Add(time.Second))
	assert.Equal(t, 1, room.CurrentPlayerIndex)

	room.AdvanceTurn("h8", startTime.Add(2*time.Second))

	// Then: the turn is back with the first player and the target is replaced
	assert.Equal(t, 0, room.CurrentPlayerIndex)
	assert.Equal(t, Square("h8"), room.TargetSquare)
	assert.Equal(t, startTime.Add(2*time.Second), room.TargetTimestamp)
	assert.Equal(t, 2, room.Turns)
}

func TestRoom_ConfirmActiveState(t *testing.T) {
	t.Run("Returns ErrGameIsNotStarted when waiting", func(t *testing.T) {
		room := &Room{Status: StatusWaiting}
		assert.ErrorIs(t, room.ConfirmActiveState(), apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when ended", func(t *testing.T) {
		room := &Room{Status: StatusEnded}
		assert.ErrorIs(t, room.ConfirmActiveState(), apperror.ErrGameFinished)
	})

	t.Run("Returns nil when active", func(t *testing.T) {
		room := &Room{Status: StatusActive}
		assert.NoError(t, room.ConfirmActiveState())
	})

	t.Run("Returns error for unknown status", func(t *testing.T) {
		room := &Room{Status: "paused"}
		err := room.ConfirmActiveState()
		require.ErrorIs(t, err, ErrUnknownRoomStatus)
		assert.Contains(t, err.Error(), "paused")
	})
}

func TestRoom_Scores(t *testing.T) {
	room := NewRoom("lobby", NewPlayer("c1", "Alice"), "e4", startTime)
	_, err := room.Seat(NewPlayer("c2", "Bob"), startTime)
	require.NoError(t, err)

	room.Players[0].RecordCorrect(4)
	room.Players[1].RecordMistake()

	assert.Equal(t, map[string]int{"Alice": 4, "Bob": 0}, room.Scores())
	assert.Equal(t, 1, room.Players[1].Mistakes)
}

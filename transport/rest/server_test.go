package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
	"github.com/rocketscienceinc/squarehunt-backend/internal/repository"
	"github.com/rocketscienceinc/squarehunt-backend/internal/usecase"
)

type fixedStats usecase.Stats

func (that fixedStats) Stats() usecase.Stats {
	return usecase.Stats(that)
}

type mockMatches struct {
	mock.Mock
}

func (m *mockMatches) GetByID(ctx context.Context, id string) (*entity.MatchResult, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*entity.MatchResult)

	return result, args.Error(1)
}

func (m *mockMatches) ListRecent(ctx context.Context, limit int) ([]*entity.MatchResult, error) {
	args := m.Called(ctx, limit)
	results, _ := args.Get(0).([]*entity.MatchResult)

	return results, args.Error(1)
}

func newTestHandler(t *testing.T, matches matchFinder) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "board.html"), []byte("<h1>board</h1>"), 0o600))

	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), Routes{
		Stats:          fixedStats{Rooms: 3, WaitingRooms: 1, ActiveRooms: 2, Players: 5},
		Matches:        matches,
		WebSocket:      http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }),
		StaticDir:      staticDir,
		AllowedOrigins: []string{"*"},
	})
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_Ping(t *testing.T) {
	rec := get(newTestHandler(t, nil), "/ping")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestHandler_Stats(t *testing.T) {
	rec := get(newTestHandler(t, nil), "/api/stats")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rooms":3,"waiting_rooms":1,"active_rooms":2,"players":5}`, rec.Body.String())
}

func TestHandler_ListMatches(t *testing.T) {
	result := &entity.MatchResult{
		ID:          "m1",
		RoomID:      "lobby",
		Winner:      "Bob",
		Reason:      entity.ReasonForfeit,
		FinalScores: map[string]int{"Alice": 4, "Bob": 9},
		Turns:       3,
		StartedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		EndedAt:     time.Date(2024, 1, 1, 12, 1, 0, 0, time.UTC),
	}

	t.Run("Default limit", func(t *testing.T) {
		// Given: an archive with one match
		matches := &mockMatches{}
		matches.On("ListRecent", mock.Anything, defaultMatchLimit).Return([]*entity.MatchResult{result}, nil)

		// When: listing without a limit
		rec := get(newTestHandler(t, matches), "/api/matches")

		// Then: the match is returned
		require.Equal(t, http.StatusOK, rec.Code)

		var got []*entity.MatchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "m1", got[0].ID)
		assert.Equal(t, "Bob", got[0].Winner)
		matches.AssertExpectations(t)
	})

	t.Run("Limit is capped", func(t *testing.T) {
		matches := &mockMatches{}
		matches.On("ListRecent", mock.Anything, maxMatchLimit).Return([]*entity.MatchResult{}, nil)

		rec := get(newTestHandler(t, matches), "/api/matches?limit=5000")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		matches.AssertExpectations(t)
	})

	t.Run("Invalid limit", func(t *testing.T) {
		matches := &mockMatches{}

		rec := get(newTestHandler(t, matches), "/api/matches?limit=zero")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		matches.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything)
	})

	t.Run("Store error", func(t *testing.T) {
		matches := &mockMatches{}
		matches.On("ListRecent", mock.Anything, 10).Return(nil, errors.New("connection refused"))

		rec := get(newTestHandler(t, matches), "/api/matches?limit=10")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Archive disabled", func(t *testing.T) {
		rec := get(newTestHandler(t, nil), "/api/matches")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandler_GetMatch(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		matches := &mockMatches{}
		matches.On("GetByID", mock.Anything, "m1").Return(&entity.MatchResult{ID: "m1", Winner: "Bob"}, nil)

		rec := get(newTestHandler(t, matches), "/api/matches/m1")

		require.Equal(t, http.StatusOK, rec.Code)

		var got entity.MatchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Bob", got.Winner)
	})

	t.Run("Missing", func(t *testing.T) {
		matches := &mockMatches{}
		matches.On("GetByID", mock.Anything, "nope").Return(nil, repository.ErrMatchNotFound)

		rec := get(newTestHandler(t, matches), "/api/matches/nope")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Archive disabled", func(t *testing.T) {
		rec := get(newTestHandler(t, nil), "/api/matches/m1")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandler_StaticAndWebSocket(t *testing.T) {
	handler := newTestHandler(t, nil)

	t.Run("Static client", func(t *testing.T) {
		rec := get(handler, "/board.html")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "board")
	})

	t.Run("WebSocket mount", func(t *testing.T) {
		rec := get(handler, "/ws")

		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("CORS header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		req.Header.Set("Origin", "http://game.example")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
	"github.com/rocketscienceinc/squarehunt-backend/internal/repository"
	"github.com/rocketscienceinc/squarehunt-backend/internal/usecase"
)

const (
	defaultMatchLimit = 20
	maxMatchLimit     = repository.MaxRecentMatches
)

type statsProvider interface {
	Stats() usecase.Stats
}

type matchFinder interface {
	GetByID(ctx context.Context, id string) (*entity.MatchResult, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.MatchResult, error)
}

type apiHandler struct {
	logger  *slog.Logger
	stats   statsProvider
	matches matchFinder
}

func (that *apiHandler) getStats(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	that.writeJSON(w, http.StatusOK, that.stats.Stats())
}

func (that *apiHandler) listMatches(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "listMatches")

	if that.matches == nil {
		that.writeError(w, http.StatusServiceUnavailable, "match archive is disabled")
		return
	}

	limit := defaultMatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			that.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}

		limit = min(n, maxMatchLimit)
	}

	results, err := that.matches.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error("failed to list matches", "error", err)
		that.writeError(w, http.StatusInternalServerError, "failed to list matches")
		return
	}

	that.writeJSON(w, http.StatusOK, results)
}

func (that *apiHandler) getMatch(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	log := that.logger.With("method", "getMatch")

	if that.matches == nil {
		that.writeError(w, http.StatusServiceUnavailable, "match archive is disabled")
		return
	}

	id := params.ByName("id")

	result, err := that.matches.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrMatchNotFound) {
		that.writeError(w, http.StatusNotFound, "match not found")
		return
	}

	if err != nil {
		log.Error("failed to get match", "id", id, "error", err)
		that.writeError(w, http.StatusInternalServerError, "failed to get match")
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *apiHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *apiHandler) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, map[string]string{"error": message})
}

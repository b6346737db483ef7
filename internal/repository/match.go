package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
)

const (
	matchKeyPrefix = "match:"
	recentKey      = "matches:recent"

	MaxRecentMatches = 100
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Save(ctx context.Context, result *entity.MatchResult) error
	GetByID(ctx context.Context, id string) (*entity.MatchResult, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.MatchResult, error)
}

type dbMatch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchRepository stores results for ttl; zero keeps them forever.
func NewMatchRepository(client *redis.Client, ttl time.Duration) MatchRepository {
	return &dbMatch{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMatch) Save(ctx context.Context, result *entity.MatchResult) error {
	matchJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, matchKeyPrefix+result.ID, matchJSON, that.ttl)
		pipe.LPush(ctx, recentKey, result.ID)
		pipe.LTrim(ctx, recentKey, 0, MaxRecentMatches-1)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.MatchResult, error) {
	response, err := that.client.Get(ctx, matchKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var result entity.MatchResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &result, nil
}

// ListRecent returns up to limit matches, newest first. Expired entries are skipped.
func (that *dbMatch) ListRecent(ctx context.Context, limit int) ([]*entity.MatchResult, error) {
	if limit <= 0 {
		return []*entity.MatchResult{}, nil
	}

	ids, err := that.client.LRange(ctx, recentKey, 0, int64(min(limit, MaxRecentMatches))-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}

	results := make([]*entity.MatchResult, 0, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = matchKeyPrefix + id
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent matches: %w", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var result entity.MatchResult
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match: %w", err)
		}

		results = append(results, &result)
	}

	return results, nil
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
)

const saveTimeout = 5 * time.Second

type matchRecorder interface {
	Save(ctx context.Context, result *entity.MatchResult) error
}

// Archiver writes finished matches to the recorder off the game path.
type Archiver struct {
	logger   *slog.Logger
	recorder matchRecorder
	queue    chan *entity.MatchResult
}

func NewArchiver(logger *slog.Logger, recorder matchRecorder, queueSize int) *Archiver {
	return &Archiver{
		logger:   logger.With("component", "archiver"),
		recorder: recorder,
		queue:    make(chan *entity.MatchResult, queueSize),
	}
}

// Submit queues a result without blocking. It reports false when the queue is full.
func (that *Archiver) Submit(result *entity.MatchResult) bool {
	select {
	case that.queue <- result:
		return true
	default:
		return false
	}
}

// Run saves queued results until ctx is canceled, then flushes what is left.
func (that *Archiver) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case result := <-that.queue:
			that.save(ctx, result)
		case <-ctx.Done():
			that.drain(ctx)
			log.Info("archiver stopped")
			return
		}
	}
}

func (that *Archiver) drain(ctx context.Context) {
	for {
		select {
		case result := <-that.queue:
			that.save(ctx, result)
		default:
			return
		}
	}
}

func (that *Archiver) save(ctx context.Context, result *entity.MatchResult) {
	log := that.logger.With("method", "save", "matchID", result.ID)

	// a save already dequeued must not be cut short by shutdown
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := that.recorder.Save(ctx, result); err != nil {
		log.Error("failed to save match result", "error", err)
		return
	}

	log.Info("match result saved", "winner", result.Winner)
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/squarehunt-backend/internal/config"
	"github.com/rocketscienceinc/squarehunt-backend/internal/repository"
	"github.com/rocketscienceinc/squarehunt-backend/internal/repository/storage"
	"github.com/rocketscienceinc/squarehunt-backend/internal/usecase"
	"github.com/rocketscienceinc/squarehunt-backend/transport/rest"
	"github.com/rocketscienceinc/squarehunt-backend/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	routes := rest.Routes{
		StaticDir:      conf.StaticDir,
		AllowedOrigins: conf.AllowedOrigins,
	}

	var archive *usecase.Archiver

	if conf.Redis.Enabled() {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		matchRepo := repository.NewMatchRepository(redisStorage.Connection, conf.Archive.MatchTTL)
		archive = usecase.NewArchiver(logger, matchRepo, conf.Archive.QueueSize)
		routes.Matches = matchRepo
	} else {
		log.Warn("Redis host is not set, match archive is disabled")
	}

	// The archive outlives the signal context so forfeits produced while
	// connections close at shutdown are still saved.
	archiveCtx, stopArchive := context.WithCancel(context.Background())
	defer stopArchive()

	archiveDone := make(chan struct{})

	var registry *usecase.Registry
	if archive != nil {
		registry = usecase.NewRegistry(logger, nil, nil, archive)

		go func() {
			defer close(archiveDone)
			archive.Run(archiveCtx)
		}()
	} else {
		registry = usecase.NewRegistry(logger, nil, nil, nil)
		close(archiveDone)
	}

	wsServer := websocket.New(logger, registry, websocket.Options{
		SendBuffer:     conf.WebSocket.SendBuffer,
		PingInterval:   conf.WebSocket.PingInterval,
		PongWait:       conf.WebSocket.PongWait,
		WriteWait:      conf.WebSocket.WriteWait,
		MaxMessageSize: conf.WebSocket.MaxMessageSize,
		AllowedOrigins: conf.AllowedOrigins,
	})

	routes.Stats = registry
	routes.WebSocket = wsServer

	httpServer := rest.New(logger, conf.HTTPPort, rest.NewHandler(logger, routes))

	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- httpServer.Start()
	}()

	var runErr error

	select {
	case err := <-httpErrCh:
		if err != nil {
			runErr = fmt.Errorf("HTTP server error: %w", err)
		}
		stop()
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}

	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("WebSocket shutdown failed", "error", err)
	}

	stopArchive()

	select {
	case <-archiveDone:
	case <-shutdownCtx.Done():
		log.Warn("Archive did not flush before the shutdown deadline")
	}

	return runErr
}

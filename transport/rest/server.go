package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

type Routes struct {
	Stats          statsProvider
	Matches        matchFinder // nil when the archive is disabled
	WebSocket      http.Handler
	StaticDir      string
	AllowedOrigins []string
}

// NewHandler builds the HTTP surface. Unknown GET paths fall through to the
// static client.
func NewHandler(logger *slog.Logger, routes Routes) http.Handler {
	api := &apiHandler{
		logger:  logger.With("component", "rest"),
		stats:   routes.Stats,
		matches: routes.Matches,
	}

	router := httprouter.New()
	router.GET("/ping", NewPingHandler().Ping)
	router.GET("/api/stats", api.getStats)
	router.GET("/api/matches", api.listMatches)
	router.GET("/api/matches/:id", api.getMatch)

	if routes.WebSocket != nil {
		router.Handler(http.MethodGet, "/ws", routes.WebSocket)
	}

	if routes.StaticDir != "" {
		router.NotFound = http.FileServer(http.Dir(routes.StaticDir))
	}

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		AllowedOrigins: routes.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(router)
}

type Server struct {
	logger *slog.Logger
	server *http.Server
}

func New(logger *slog.Logger, port string, handler http.Handler) *Server {
	return &Server{
		logger: logger.With("component", "http"),
		// The timeouts bound plain HTTP requests. gorilla's Upgrade clears the
		// connection deadlines, and /ws then runs on its own ping/pong deadlines.
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       30 * time.Second,
		},
	}
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (that *Server) Start() error {
	that.logger.Info("Starting HTTP server", "addr", that.server.Addr)

	if err := that.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
)

type registry interface {
	Join(connID, playerName, roomName string) []entity.Outbound
	MakeMove(connID, roomID, square string) []entity.Outbound
	Disconnect(connID string) []entity.Outbound
}

type Options struct {
	SendBuffer     int
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	AllowedOrigins []string
}

func DefaultOptions() Options {
	return Options{
		SendBuffer:     32,
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 1024,
		AllowedOrigins: []string{"*"},
	}
}

type handlerFunc func(ctx context.Context, connID string, msg *Message) error

// Server routes websocket events from every connection into the registry
// and delivers what the registry answers.
type Server struct {
	logger   *slog.Logger
	registry registry
	opts     Options
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	// dispatchMu makes a transition and the queueing of its messages one step.
	dispatchMu sync.Mutex

	clientsMu sync.RWMutex
	clients   map[string]*client

	// active counts connections whose disconnect has not run yet.
	active sync.WaitGroup
}

func New(logger *slog.Logger, registry registry, opts Options) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		registry: registry,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(opts.AllowedOrigins),
		},

		handlers: make(map[string]handlerFunc),
		clients:  make(map[string]*client),
	}

	server.handlers[entity.ActionJoinRoom] = server.handleJoinRoom
	server.handlers[entity.ActionMakeMove] = server.handleMakeMove

	return server
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	that.active.Add(1)
	defer that.active.Done()

	c := newClient(uuid.NewString(), conn, that.opts.SendBuffer)
	that.register(c)

	log.Info("WebSocket connection established", "connID", c.id, "remote", r.RemoteAddr)

	go that.writePump(c)

	that.readPump(r.Context(), c)

	that.handleDisconnect(c.id)
	that.unregister(c)

	log.Info("WebSocket connection closed", "connID", c.id)
}

// Shutdown closes every open connection and waits until each has run its
// disconnect, or until ctx is done. Call it after the HTTP listener stopped
// accepting upgrades.
func (that *Server) Shutdown(ctx context.Context) error {
	that.clientsMu.RLock()
	for _, c := range that.clients {
		_ = c.conn.Close()
	}
	that.clientsMu.RUnlock()

	done := make(chan struct{})
	go func() {
		that.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("websocket connections still open: %w", ctx.Err())
	}
}

func (that *Server) ConnectionCount() int {
	that.clientsMu.RLock()
	defer that.clientsMu.RUnlock()

	return len(that.clients)
}

func (that *Server) register(c *client) {
	that.clientsMu.Lock()
	defer that.clientsMu.Unlock()

	that.clients[c.id] = c
}

func (that *Server) unregister(c *client) {
	that.clientsMu.Lock()
	delete(that.clients, c.id)
	that.clientsMu.Unlock()

	c.close()
}

func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump", "connID", c.id)

	c.conn.SetReadLimit(that.opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(that.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(that.opts.PongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn("unexpected close", "error", err)
			}

			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			log.Warn("unknown action", "action", msg.Action)
			continue
		}

		if err = handler(ctx, c.id, &msg); err != nil {
			log.Error("error processing message", "action", msg.Action, "error", err)
		}
	}
}

func (that *Server) writePump(c *client) {
	log := that.logger.With("method", "writePump", "connID", c.id)

	ticker := time.NewTicker(that.opts.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(that.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(that.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(that.opts.WriteWait))
			return
		}
	}
}

// dispatch runs one registry transition and queues its messages.
func (that *Server) dispatch(transition func() []entity.Outbound) {
	that.dispatchMu.Lock()
	defer that.dispatchMu.Unlock()

	that.deliver(transition())
}

func (that *Server) deliver(out []entity.Outbound) {
	log := that.logger.With("method", "deliver")

	for _, o := range out {
		data, err := encode(o.Action, o.Payload)
		if err != nil {
			log.Error("failed to encode message", "action", o.Action, "error", err)
			continue
		}

		that.clientsMu.RLock()
		c, ok := that.clients[o.ConnID]
		that.clientsMu.RUnlock()

		if !ok {
			log.Warn("connection not found", "connID", o.ConnID, "action", o.Action)
			continue
		}

		if err = c.enqueue(data); err != nil {
			log.Warn("dropping slow connection", "connID", o.ConnID, "error", err)
			_ = c.conn.Close()
		}
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

var errSendBufferFull = errors.New("send buffer full")

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, buffer int) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

func (that *client) enqueue(data []byte) error {
	select {
	case <-that.done:
		return nil
	default:
	}

	select {
	case that.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

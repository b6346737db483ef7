package usecase

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/squarehunt-backend/internal/apperror"
	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
	"github.com/rocketscienceinc/squarehunt-backend/internal/squarehunt"
)

const (
	msgInvalidRoomName = "Invalid room name"
	msgRoomFull        = "Room is full"
	msgAlreadyInRoom   = "Already in a room"
)

type matchArchive interface {
	Submit(result *entity.MatchResult) bool
}

type Stats struct {
	Rooms        int `json:"rooms"`
	WaitingRooms int `json:"waiting_rooms"`
	ActiveRooms  int `json:"active_rooms"`
	Players      int `json:"players"`
}

// Registry owns every live room. Each exported method is one transition
// and returns the messages it produced; callers deliver them.
type Registry struct {
	logger    *slog.Logger
	clock     clockwork.Clock
	challenge squarehunt.ChallengeFunc
	archive   matchArchive

	mu      sync.Mutex
	rooms   map[string]*entity.Room
	members map[string]string // connID -> roomID
}

func NewRegistry(logger *slog.Logger, clock clockwork.Clock, challenge squarehunt.ChallengeFunc, archive matchArchive) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	if challenge == nil {
		challenge = squarehunt.RandomSquare
	}

	if archive == nil {
		archive = nopArchive{}
	}

	return &Registry{
		logger:    logger.With("component", "registry"),
		clock:     clock,
		challenge: challenge,
		archive:   archive,

		rooms:   make(map[string]*entity.Room),
		members: make(map[string]string),
	}
}

func (that *Registry) Join(connID, playerName, roomName string) []entity.Outbound {
	log := that.logger.With("method", "Join", "connID", connID)

	roomID := entity.SanitizeRoomName(roomName)
	if roomID == "" {
		log.Info("rejected join", "roomName", roomName)
		return roomError(connID, apperror.ErrInvalidRoomName)
	}

	log = log.With("roomID", roomID)

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.members[connID]; ok {
		log.Info("connection already seated")
		return roomError(connID, apperror.ErrAlreadyInRoom)
	}

	now := that.clock.Now()

	room, ok := that.rooms[roomID]
	if !ok {
		room = entity.NewRoom(roomID, entity.NewPlayer(connID, playerName), that.challenge(), now)
		that.rooms[roomID] = room
		that.members[connID] = roomID

		log.Info("created room", "player", playerName)

		return []entity.Outbound{{
			ConnID:  connID,
			Action:  entity.ActionWaitingForOpponent,
			Payload: entity.WaitingForOpponent{RoomName: roomID},
		}}
	}

	seated, err := room.Seat(entity.NewPlayer(connID, playerName), now)
	if err != nil {
		log.Info("rejected join", "error", err)
		return roomError(connID, err)
	}

	room.MatchID = uuid.NewString()
	that.members[connID] = roomID

	log.Info("game started", "player", seated.Name, "matchID", room.MatchID)

	return gameStart(room)
}

func (that *Registry) MakeMove(connID, roomID, square string) []entity.Outbound {
	log := that.logger.With("method", "MakeMove", "connID", connID, "roomID", roomID)

	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		log.Debug("move for unknown room dropped")
		return nil
	}

	now := that.clock.Now()

	result, err := squarehunt.MakeMove(room, connID, entity.Square(square), now, that.challenge)
	if errors.Is(err, apperror.ErrNotYourTurn) {
		return []entity.Outbound{{
			ConnID:  connID,
			Action:  entity.ActionNotYourTurn,
			Payload: entity.NotYourTurn{},
		}}
	}

	if err != nil {
		log.Debug("move dropped", "error", err)
		return nil
	}

	log.Info("move applied", "player", result.Player, "correct", result.Correct, "points", result.PointsEarned)

	update := entity.GameStateUpdate{
		MoveResult:    result,
		Scores:        room.Scores(),
		CurrentPlayer: room.CurrentPlayer().Name,
		TargetSquare:  room.TargetSquare,
	}

	return broadcast(room, entity.ActionGameStateUpdate, update)
}

func (that *Registry) Disconnect(connID string) []entity.Outbound {
	log := that.logger.With("method", "Disconnect", "connID", connID)

	that.mu.Lock()
	defer that.mu.Unlock()

	roomID, ok := that.members[connID]
	if !ok {
		return nil
	}

	room := that.rooms[roomID]
	log = log.With("roomID", roomID)

	that.removeRoom(room)

	opponent := room.Opponent(connID)
	if opponent == nil {
		log.Info("removed room as the only player left")
		return nil
	}

	result := entity.NewForfeitResult(room, opponent, that.clock.Now())
	if !that.archive.Submit(result) {
		log.Warn("match result not archived", "matchID", result.ID)
	}

	log.Info("player left, opponent wins", "winner", opponent.Name)

	return []entity.Outbound{{
		ConnID: opponent.ConnID,
		Action: entity.ActionOpponentLeft,
		Payload: entity.OpponentLeft{
			Winner:      opponent.Name,
			FinalScores: result.FinalScores,
		},
	}}
}

func (that *Registry) Stats() Stats {
	that.mu.Lock()
	defer that.mu.Unlock()

	stats := Stats{
		Rooms:   len(that.rooms),
		Players: len(that.members),
	}

	for _, room := range that.rooms {
		switch {
		case room.IsWaiting():
			stats.WaitingRooms++
		case room.IsActive():
			stats.ActiveRooms++
		}
	}

	return stats
}

// removeRoom ends the room and forgets it together with its seats.
func (that *Registry) removeRoom(room *entity.Room) {
	room.End()

	delete(that.rooms, room.ID)

	for _, p := range room.Players {
		delete(that.members, p.ConnID)
	}
}

func gameStart(room *entity.Room) []entity.Outbound {
	out := make([]entity.Outbound, 0, len(room.Players))
	first := room.Players[0].Name

	for i, p := range room.Players {
		opponent := room.Players[(i+1)%entity.MaxPlayers]

		out = append(out, entity.Outbound{
			ConnID: p.ConnID,
			Action: entity.ActionGameStart,
			Payload: entity.GameStart{
				RoomID:        room.ID,
				PlayerInfo:    entity.PlayerInfo{Name: p.Name, IsFirstPlayer: i == 0},
				OpponentInfo:  entity.OpponentInfo{Name: opponent.Name},
				TargetSquare:  room.TargetSquare,
				CurrentPlayer: first,
			},
		})
	}

	return out
}

func broadcast(room *entity.Room, action string, payload any) []entity.Outbound {
	out := make([]entity.Outbound, 0, len(room.Players))
	for _, p := range room.Players {
		out = append(out, entity.Outbound{ConnID: p.ConnID, Action: action, Payload: payload})
	}

	return out
}

func roomError(connID string, err error) []entity.Outbound {
	var msg string

	switch {
	case errors.Is(err, apperror.ErrInvalidRoomName):
		msg = msgInvalidRoomName
	case errors.Is(err, apperror.ErrAlreadyInRoom):
		msg = msgAlreadyInRoom
	default:
		msg = msgRoomFull
	}

	return []entity.Outbound{{
		ConnID:  connID,
		Action:  entity.ActionRoomError,
		Payload: entity.RoomError{Message: msg},
	}}
}

type nopArchive struct{}

func (nopArchive) Submit(*entity.MatchResult) bool { return true }

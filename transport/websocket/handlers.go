package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/squarehunt-backend/internal/entity"
)

func (that *Server) handleJoinRoom(_ context.Context, connID string, msg *Message) error {
	var req entity.JoinRoomRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.dispatch(func() []entity.Outbound {
		return that.registry.Join(connID, req.PlayerName, req.RoomName)
	})

	return nil
}

func (that *Server) handleMakeMove(_ context.Context, connID string, msg *Message) error {
	var req entity.MakeMoveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.dispatch(func() []entity.Outbound {
		return that.registry.MakeMove(connID, req.RoomID, req.Square)
	})

	return nil
}

func (that *Server) handleDisconnect(connID string) {
	that.dispatch(func() []entity.Outbound {
		return that.registry.Disconnect(connID)
	})
}

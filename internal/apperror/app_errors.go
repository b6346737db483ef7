package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrInvalidRoomName  = errors.New("invalid room name")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyInRoom    = errors.New("connection is already in a room")
	ErrNotInRoom        = errors.New("connection is not in the room")
)

package entity

// Client actions.
const (
	ActionJoinRoom = "joinRoom"
	ActionMakeMove = "makeMove"
)

// Server actions.
const (
	ActionWaitingForOpponent = "waitingForOpponent"
	ActionRoomError          = "roomError"
	ActionGameStart          = "gameStart"
	ActionGameStateUpdate    = "gameStateUpdate"
	ActionNotYourTurn        = "notYourTurn"
	ActionOpponentLeft       = "opponentLeft"
)

// Outbound is a message addressed to a single connection.
type Outbound struct {
	ConnID  string
	Action  string
	Payload any
}

type JoinRoomRequest struct {
	PlayerName string `json:"playerName"`
	RoomName   string `json:"roomName"`
}

type MakeMoveRequest struct {
	RoomID string `json:"roomId"`
	Square string `json:"square"`
}

type WaitingForOpponent struct {
	RoomName string `json:"roomName"`
}

type RoomError struct {
	Message string `json:"message"`
}

type PlayerInfo struct {
	Name          string `json:"name"`
	IsFirstPlayer bool   `json:"isFirstPlayer"`
}

type OpponentInfo struct {
	Name string `json:"name"`
}

type GameStart struct {
	RoomID        string       `json:"roomId"`
	PlayerInfo    PlayerInfo   `json:"playerInfo"`
	OpponentInfo  OpponentInfo `json:"opponentInfo"`
	TargetSquare  Square       `json:"targetSquare"`
	CurrentPlayer string       `json:"currentPlayer"`
}

type MoveResult struct {
	Player       string `json:"player"`
	Correct      bool   `json:"correct"`
	PointsEarned int    `json:"pointsEarned"`
}

type GameStateUpdate struct {
	MoveResult    MoveResult     `json:"moveResult"`
	Scores        map[string]int `json:"scores"`
	CurrentPlayer string         `json:"currentPlayer"`
	TargetSquare  Square         `json:"targetSquare"`
}

type NotYourTurn struct{}

type OpponentLeft struct {
	Winner      string         `json:"winner"`
	FinalScores map[string]int `json:"finalScores"`
}

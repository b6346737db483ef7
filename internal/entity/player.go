package entity

// Player is a seat in a room, keyed by the connection that owns it.
type Player struct {
	ConnID   string `json:"-"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Mistakes int    `json:"mistakes"`
}

func NewPlayer(connID, name string) *Player {
	return &Player{
		ConnID: connID,
		Name:   name,
	}
}

func (that *Player) RecordCorrect(points int) {
	that.Score += points
	that.Mistakes = 0
}

func (that *Player) RecordMistake() {
	that.Mistakes++
}

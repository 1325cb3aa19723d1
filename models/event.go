package models

import "github.com/shopspring/decimal"

// EventType identifies one externally observable session mutation.
type EventType string

const (
	EventSession   EventType = "session"   // full snapshot, sent on subscribe and on joins
	EventCountdown EventType = "countdown" // one countdown tick
	EventGameState EventType = "gameState" // state transition
	EventDraw      EventType = "draw"      // one new number called
	EventGameEnd   EventType = "gameEnd"   // terminal event with winners and prizes
)

// Event is what the broadcast hub pushes to every subscriber of a session.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

type CountdownEvent struct {
	SessionID string `json:"sessionId"`
	Countdown int    `json:"countdown"`
}

type GameStateEvent struct {
	SessionID string    `json:"sessionId"`
	State     GameState `json:"state"`
}

type DrawEvent struct {
	SessionID string   `json:"sessionId"`
	Number    string   `json:"number"`
	Drawn     []string `json:"drawn"`
}

type GameEndEvent struct {
	SessionID      string          `json:"sessionId"`
	Winners        []Winner        `json:"winners"`
	PrizePerWinner decimal.Decimal `json:"prizePerWinner"`
	Pot            decimal.Decimal `json:"pot"`
}

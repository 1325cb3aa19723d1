package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameState is the lifecycle state of a session.
type GameState string

const (
	StateWaiting   GameState = "waiting"
	StateCountdown GameState = "countdown"
	StatePlaying   GameState = "playing"
	StateFinished  GameState = "finished"
)

// Player is one participant in a session. Created on join; only HasWon and
// Prize change afterwards.
type Player struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	CardIndices []int           `json:"cardIndices"`
	Stake       decimal.Decimal `json:"stake"`
	HasWon      bool            `json:"hasWon"`
	Prize       decimal.Decimal `json:"prize"`
	JoinedAt    time.Time       `json:"joinedAt"`
}

// Winner records one winning player once a session finishes.
type Winner struct {
	PlayerID  string          `json:"playerId"`
	UserID    string          `json:"userId"`
	CardIndex int             `json:"cardIndex"`
	Prize     decimal.Decimal `json:"prize"`
}

// Session is one game round from intake to settlement. It is mutated only by
// whole-record replace-on-write through the store; last writer wins.
type Session struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	StartedAt    *time.Time      `json:"startedAt,omitempty"`
	State        GameState       `json:"state"`
	Countdown    int             `json:"countdown"`
	MinPlayers   int             `json:"minPlayers"`
	MaxPlayers   int             `json:"maxPlayers"`
	Active       bool            `json:"active"`
	Players      []Player        `json:"players"`
	DrawnNumbers []string        `json:"drawnNumbers"`
	Pot          decimal.Decimal `json:"pot"`

	// Set once the session reaches finished.
	Winners        []Winner        `json:"winners"`
	PrizePerWinner decimal.Decimal `json:"prizePerWinner"`
}

// PlayerByUserID returns the player record for userID, or nil.
func (s *Session) PlayerByUserID(userID string) *Player {
	for i := range s.Players {
		if s.Players[i].UserID == userID {
			return &s.Players[i]
		}
	}
	return nil
}

// DrawnSet returns the drawn tokens as a lookup set.
func (s *Session) DrawnSet() map[string]bool {
	set := make(map[string]bool, len(s.DrawnNumbers))
	for _, t := range s.DrawnNumbers {
		set[t] = true
	}
	return set
}

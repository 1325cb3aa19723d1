package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/yebeniyam/bingo/config"
	"github.com/yebeniyam/bingo/models"
)

// Supervisor owns one recurring timer per active session and drives the
// waiting → countdown → playing → finished state machine. Step advances a
// session by exactly one tick, so tests can run the machine without timers.
type Supervisor struct {
	wallet   Wallet
	pub      Publisher
	clock    Clock
	cfg      *config.Config
	log      *zap.SugaredLogger
	registry *Registry
	pool     []models.Card

	rngMu sync.Mutex
	rng   *rand.Rand

	mu      sync.Mutex
	running map[string]chan struct{}
}

func NewSupervisor(wallet Wallet, pub Publisher, clock Clock, cfg *config.Config, log *zap.SugaredLogger, registry *Registry) *Supervisor {
	return &Supervisor{
		wallet:   wallet,
		pub:      pub,
		clock:    clock,
		cfg:      cfg,
		log:      log,
		registry: registry,
		pool:     registry.CardPool(),
		rng:      rand.New(rand.NewSource(clock.Now().UnixNano())),
		running:  make(map[string]chan struct{}),
	}
}

// Start begins ticking a session. Idempotent: a session already running is
// left alone.
func (s *Supervisor) Start(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[sessionID]; ok {
		return
	}
	stop := make(chan struct{})
	s.running[sessionID] = stop
	go s.run(sessionID, stop)
}

// Stop tears down a session's timer without touching its state.
func (s *Supervisor) Stop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.running[sessionID]; ok {
		delete(s.running, sessionID)
		close(stop)
	}
}

// Running reports whether a session currently has a timer.
func (s *Supervisor) Running(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[sessionID]
	return ok
}

func (s *Supervisor) run(sessionID string, stop chan struct{}) {
	ticker := s.clock.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	defer s.remove(sessionID)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			done, err := s.Step(context.Background(), sessionID)
			if err != nil {
				// Tear the timer down rather than retry forever on a
				// corrupted session.
				s.log.Errorf("session %s: tick failed, stopping timer: %v", sessionID, err)
				return
			}
			if done {
				return
			}
		}
	}
}

func (s *Supervisor) remove(sessionID string) {
	s.mu.Lock()
	delete(s.running, sessionID)
	s.mu.Unlock()
}

// Step advances the session one tick: a countdown decrement, or a draw plus
// win evaluation. Returns done=true once the session no longer needs ticking.
func (s *Supervisor) Step(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.registry.GetSession(ctx, sessionID)
	if err != nil {
		var appErr *models.Error
		if errors.As(err, &appErr) && appErr.Code == "NotFoundError" {
			// Record disappeared mid-tick: implicit transition to finished.
			s.log.Warnf("session %s: record gone, treating as finished", sessionID)
			s.pub.CloseSession(sessionID)
			return true, nil
		}
		return false, err
	}
	if !session.Active || session.State == models.StateFinished {
		return true, nil
	}

	switch session.State {
	case models.StateWaiting:
		// The loop is started on the countdown transition; tolerate a stray
		// early tick.
		return false, nil

	case models.StateCountdown:
		session.Countdown--
		if session.Countdown <= 0 {
			session.Countdown = 0
			session.State = models.StatePlaying
			now := s.clock.Now()
			session.StartedAt = &now
		}
		if err := s.registry.saveSession(ctx, session); err != nil {
			return false, err
		}
		s.pub.Publish(session.ID, models.Event{Type: models.EventCountdown,
			Data: models.CountdownEvent{SessionID: session.ID, Countdown: session.Countdown}})
		if session.State == models.StatePlaying {
			s.log.Infof("session %s: game started with %d players", session.ID, len(session.Players))
			s.pub.Publish(session.ID, models.Event{Type: models.EventGameState,
				Data: models.GameStateEvent{SessionID: session.ID, State: session.State}})
		}
		return false, nil

	case models.StatePlaying:
		drawn := session.DrawnSet()
		s.rngMu.Lock()
		token, ok := DrawNext(drawn, s.rng)
		s.rngMu.Unlock()
		if !ok {
			// All 75 numbers out, nobody won.
			return true, s.finish(ctx, session, nil)
		}
		session.DrawnNumbers = append(session.DrawnNumbers, token)
		drawn[token] = true

		winners := s.evaluate(session, drawn)
		if len(winners) > 0 || len(session.DrawnNumbers) >= TotalNumbers {
			// Subscribers see the deciding number before the end events.
			s.pub.Publish(session.ID, models.Event{Type: models.EventDraw,
				Data: models.DrawEvent{SessionID: session.ID, Number: token, Drawn: session.DrawnNumbers}})
			return true, s.finish(ctx, session, winners)
		}

		if err := s.registry.saveSession(ctx, session); err != nil {
			return false, err
		}
		s.pub.Publish(session.ID, models.Event{Type: models.EventDraw,
			Data: models.DrawEvent{SessionID: session.ID, Number: token, Drawn: session.DrawnNumbers}})
		return false, nil
	}

	return true, nil
}

// evaluate collects every player holding at least one winning card. One
// winner entry per player, however many of their cards or lines hit.
func (s *Supervisor) evaluate(session *models.Session, drawn map[string]bool) []models.Winner {
	var winners []models.Winner
	for i := range session.Players {
		p := &session.Players[i]
		for _, ci := range p.CardIndices {
			if ci < 0 || ci >= len(s.pool) {
				continue
			}
			if HasBingo(s.pool[ci], drawn) {
				winners = append(winners, models.Winner{PlayerID: p.ID, UserID: p.UserID, CardIndex: ci})
				break
			}
		}
	}
	return winners
}

// finish settles the session: prizes credited exactly once, reservations
// released, final events flushed, subscribers closed.
func (s *Supervisor) finish(ctx context.Context, session *models.Session, winners []models.Winner) error {
	if winners == nil {
		winners = []models.Winner{}
	}
	prize := PrizePerWinner(session.Pot, len(winners))
	for i := range winners {
		winners[i].Prize = prize
		if p := session.PlayerByUserID(winners[i].UserID); p != nil {
			p.HasWon = true
			p.Prize = prize
		}
		if err := s.wallet.CreditPrize(ctx, winners[i].UserID, prize); err != nil {
			s.log.Errorf("session %s: failed to credit prize to user %s: %v", session.ID, winners[i].UserID, err)
		}
	}

	session.State = models.StateFinished
	session.Active = false
	session.Winners = winners
	session.PrizePerWinner = prize
	if err := s.registry.saveSession(ctx, session); err != nil {
		return err
	}

	if err := s.registry.ReleaseSessionCards(ctx, session); err != nil {
		s.log.Errorf("session %s: failed to release card reservations: %v", session.ID, err)
	}

	s.pub.Publish(session.ID, models.Event{Type: models.EventGameState,
		Data: models.GameStateEvent{SessionID: session.ID, State: session.State}})
	s.pub.Publish(session.ID, models.Event{Type: models.EventGameEnd,
		Data: models.GameEndEvent{SessionID: session.ID, Winners: winners, PrizePerWinner: prize, Pot: session.Pot}})
	s.pub.CloseSession(session.ID)

	s.log.Infof("session %s: finished after %d draws with %d winner(s), prize %s each",
		session.ID, len(session.DrawnNumbers), len(winners), prize)
	return nil
}

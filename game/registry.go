package game

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yebeniyam/bingo/config"
	"github.com/yebeniyam/bingo/models"
	"github.com/yebeniyam/bingo/store"
)

// Wallet is the subset of wallet operations the game engine needs.
type Wallet interface {
	DebitStake(ctx context.Context, userID string, amount decimal.Decimal) error
	CreditPrize(ctx context.Context, userID string, amount decimal.Decimal) error
}

// Publisher fans out session events to subscribers.
type Publisher interface {
	Publish(sessionID string, ev models.Event)
	CloseSession(sessionID string)
}

// Starter starts the game loop for a session. Starting the same session
// twice must be a no-op.
type Starter interface {
	Start(sessionID string)
}

// Registry creates and looks up sessions and enforces the capacity and
// card-reservation invariants on join.
type Registry struct {
	store  store.Store
	wallet Wallet
	pub    Publisher
	cfg    *config.Config
	log    *zap.SugaredLogger
	pool   []models.Card

	starter Starter

	// Serializes the reservation read-modify-write so ReserveCards is
	// all-or-nothing within this process. Session and balance writes stay
	// last-writer-wins on purpose.
	resMu sync.Mutex
}

func NewRegistry(st store.Store, wallet Wallet, pub Publisher, cfg *config.Config, log *zap.SugaredLogger, pool []models.Card) *Registry {
	return &Registry{store: st, wallet: wallet, pub: pub, cfg: cfg, log: log, pool: pool}
}

// SetStarter wires the game loop in after construction; the loop needs the
// registry and the registry needs the loop.
func (r *Registry) SetStarter(s Starter) { r.starter = s }

// CardPool returns the fixed pool of pre-generated cards.
func (r *Registry) CardPool() []models.Card { return r.pool }

// CreateSession allocates a fresh waiting session and makes it the canonical
// one for joins that carry no session id.
func (r *Registry) CreateSession(ctx context.Context) (*models.Session, error) {
	session := &models.Session{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now(),
		State:          models.StateWaiting,
		Countdown:      r.cfg.CountdownSeconds,
		MinPlayers:     r.cfg.MinPlayers,
		MaxPlayers:     r.cfg.MaxPlayers,
		Active:         true,
		Players:        []models.Player{},
		DrawnNumbers:   []string{},
		Pot:            decimal.Zero,
		PrizePerWinner: decimal.Zero,
	}
	if err := r.saveSession(ctx, session); err != nil {
		return nil, err
	}
	if err := store.PutJSON(ctx, r.store, store.CurrentSessionKey, session.ID, r.cfg.SessionTTL); err != nil {
		return nil, err
	}
	r.log.Infof("session %s created", session.ID)
	return session, nil
}

// GetSession loads a session; absent or expired maps to NotFoundError.
func (r *Registry) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	ok, err := store.GetJSON(ctx, r.store, store.SessionKey(id), &session)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrNotFound("session %s not found", id)
	}
	return &session, nil
}

func (r *Registry) saveSession(ctx context.Context, session *models.Session) error {
	return store.PutJSON(ctx, r.store, store.SessionKey(session.ID), session, r.cfg.SessionTTL)
}

// Reservations returns the global card-pool reservation map (index → user).
func (r *Registry) Reservations(ctx context.Context) (map[int]string, error) {
	raw, err := r.loadReservations(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		idx, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[idx] = v
	}
	return out, nil
}

func (r *Registry) loadReservations(ctx context.Context) (map[string]string, error) {
	raw := map[string]string{}
	if _, err := store.GetJSON(ctx, r.store, store.ReservationsKey, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ReserveCards marks all requested pool indices as reserved by userID, or
// fails with CardUnavailable without reserving any of them. Indices already
// held by the same user are fine (idempotent re-reserve).
func (r *Registry) ReserveCards(ctx context.Context, indices []int, userID string) error {
	r.resMu.Lock()
	defer r.resMu.Unlock()

	raw, err := r.loadReservations(ctx)
	if err != nil {
		return err
	}
	for _, idx := range indices {
		if owner, ok := raw[strconv.Itoa(idx)]; ok && owner != userID {
			return models.ErrCardUnavailable(idx)
		}
	}
	for _, idx := range indices {
		raw[strconv.Itoa(idx)] = userID
	}
	return store.PutJSON(ctx, r.store, store.ReservationsKey, raw, 0)
}

// releaseCards removes the given indices when owned by userID.
func (r *Registry) releaseCards(ctx context.Context, indices []int, userID string) error {
	r.resMu.Lock()
	defer r.resMu.Unlock()

	raw, err := r.loadReservations(ctx)
	if err != nil {
		return err
	}
	for _, idx := range indices {
		if raw[strconv.Itoa(idx)] == userID {
			delete(raw, strconv.Itoa(idx))
		}
	}
	return store.PutJSON(ctx, r.store, store.ReservationsKey, raw, 0)
}

// ReleaseSessionCards frees every reservation held by the session's players.
// Reservations are scoped to a session's lifetime; with a 20-card pool the
// game would starve itself after one round otherwise.
func (r *Registry) ReleaseSessionCards(ctx context.Context, session *models.Session) error {
	for i := range session.Players {
		p := &session.Players[i]
		if err := r.releaseCards(ctx, p.CardIndices, p.UserID); err != nil {
			return err
		}
	}
	return nil
}

// JoinSession adds a user to a session. With an empty sessionID the canonical
// session is used (created if needed). Re-joining with the same userID
// returns the existing player record without charging or reserving again.
func (r *Registry) JoinSession(ctx context.Context, sessionID, userID string, cardIndices []int, cardCost decimal.Decimal) (*models.Session, *models.Player, error) {
	if n := len(cardIndices); n < 1 || n > r.cfg.MaxCardsPerPlayer {
		return nil, nil, models.ErrValidation("select between 1 and %d cards", r.cfg.MaxCardsPerPlayer)
	}
	seen := make(map[int]bool, len(cardIndices))
	for _, idx := range cardIndices {
		if idx < 0 || idx >= len(r.pool) {
			return nil, nil, models.ErrInvalidSelection("card index %d out of range [0,%d]", idx, len(r.pool)-1)
		}
		if seen[idx] {
			return nil, nil, models.ErrInvalidSelection("duplicate card index %d", idx)
		}
		seen[idx] = true
	}
	if !cardCost.IsPositive() {
		return nil, nil, models.ErrValidation("cardCost must be positive")
	}

	var (
		session *models.Session
		err     error
	)
	if sessionID == "" {
		session, err = r.currentSession(ctx)
	} else {
		session, err = r.GetSession(ctx, sessionID)
	}
	if err != nil {
		return nil, nil, err
	}

	if p := session.PlayerByUserID(userID); p != nil {
		return session, p, nil
	}

	if !session.Active || session.State == models.StatePlaying || session.State == models.StateFinished {
		return nil, nil, models.ErrConflict("session %s is no longer accepting players", session.ID)
	}
	if len(session.Players) >= session.MaxPlayers {
		return nil, nil, models.ErrSessionFull(session.ID)
	}

	if err := r.ReserveCards(ctx, cardIndices, userID); err != nil {
		return nil, nil, err
	}

	stake := cardCost.Mul(decimal.NewFromInt(int64(len(cardIndices))))
	if err := r.wallet.DebitStake(ctx, userID, stake); err != nil {
		if relErr := r.releaseCards(ctx, cardIndices, userID); relErr != nil {
			r.log.Errorf("session %s: failed to release cards for %s after debit failure: %v", session.ID, userID, relErr)
		}
		return nil, nil, err
	}

	player := models.Player{
		ID:          uuid.NewString(),
		UserID:      userID,
		CardIndices: append([]int(nil), cardIndices...),
		Stake:       stake,
		Prize:       decimal.Zero,
		JoinedAt:    time.Now(),
	}
	session.Players = append(session.Players, player)
	session.Pot = session.Pot.Add(stake)

	triggered := false
	if session.State == models.StateWaiting && len(session.Players) >= session.MinPlayers {
		session.State = models.StateCountdown
		triggered = true
	}

	if err := r.saveSession(ctx, session); err != nil {
		return nil, nil, err
	}

	r.log.Infof("session %s: user %s joined with %d card(s) (%d/%d players)",
		session.ID, userID, len(cardIndices), len(session.Players), session.MaxPlayers)
	r.pub.Publish(session.ID, models.Event{Type: models.EventSession, Data: session})

	if triggered {
		r.pub.Publish(session.ID, models.Event{Type: models.EventGameState,
			Data: models.GameStateEvent{SessionID: session.ID, State: session.State}})
		if r.starter != nil {
			r.starter.Start(session.ID)
		}
		r.log.Infof("session %s: minimum players reached, countdown started", session.ID)
	}

	return session, &session.Players[len(session.Players)-1], nil
}

// currentSession returns the canonical joinable session, creating one when
// the pointer is stale or the session has moved past intake.
func (r *Registry) currentSession(ctx context.Context) (*models.Session, error) {
	var id string
	ok, err := store.GetJSON(ctx, r.store, store.CurrentSessionKey, &id)
	if err != nil {
		return nil, err
	}
	if ok {
		session, err := r.GetSession(ctx, id)
		if err == nil && session.Active &&
			(session.State == models.StateWaiting || session.State == models.StateCountdown) {
			return session, nil
		}
	}
	return r.CreateSession(ctx)
}

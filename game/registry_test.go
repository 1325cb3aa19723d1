package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yebeniyam/bingo/config"
	"github.com/yebeniyam/bingo/models"
	"github.com/yebeniyam/bingo/store"
)

// ---- stubs shared by registry and loop tests ----

type stubWallet struct {
	mu          sync.Mutex
	debitCalls  int
	creditCalls int
	credits     map[string]decimal.Decimal
	failDebit   bool
}

func newStubWallet() *stubWallet {
	return &stubWallet{credits: make(map[string]decimal.Decimal)}
}

func (w *stubWallet) DebitStake(_ context.Context, userID string, amount decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failDebit {
		return models.ErrInsufficientBalance(decimal.Zero, amount)
	}
	w.debitCalls++
	return nil
}

func (w *stubWallet) CreditPrize(_ context.Context, userID string, amount decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.creditCalls++
	w.credits[userID] = amount
	return nil
}

type publishedEvent struct {
	sessionID string
	ev        models.Event
}

type stubPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	closed []string
}

func (p *stubPublisher) Publish(sessionID string, ev models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{sessionID, ev})
}

func (p *stubPublisher) CloseSession(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, sessionID)
}

func (p *stubPublisher) eventsOfType(t models.EventType) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, pe := range p.events {
		if pe.ev.Type == t {
			out = append(out, pe)
		}
	}
	return out
}

type stubStarter struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubStarter) Start(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sessionID)
}

func testConfig() *config.Config {
	return &config.Config{
		MinPlayers:        2,
		MaxPlayers:        50,
		CountdownSeconds:  60,
		TickInterval:      time.Second,
		CardPoolSize:      20,
		MaxCardsPerPlayer: 3,
		SessionTTL:        time.Hour,
		WalletTTL:         time.Hour,
	}
}

func newTestRegistry(cfg *config.Config) (*Registry, *stubWallet, *stubPublisher, *stubStarter) {
	wallet := newStubWallet()
	pub := &stubPublisher{}
	starter := &stubStarter{}
	r := NewRegistry(store.NewMemory(), wallet, pub, cfg, zap.NewNop().Sugar(), GenerateCardPool(cfg.CardPoolSize))
	r.SetStarter(starter)
	return r, wallet, pub, starter
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.Error
	require.True(t, errors.As(err, &appErr), "expected *models.Error, got %v", err)
	return appErr.Code
}

// ---- tests ----

func TestCreateSession(t *testing.T) {
	r, _, _, _ := newTestRegistry(testConfig())

	session, err := r.CreateSession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.StateWaiting, session.State)
	assert.Equal(t, 60, session.Countdown)
	assert.Equal(t, 2, session.MinPlayers)
	assert.Equal(t, 50, session.MaxPlayers)
	assert.True(t, session.Active)
	assert.Empty(t, session.Players)
	assert.Empty(t, session.DrawnNumbers)
	assert.True(t, session.Pot.IsZero())

	got, err := r.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}

func TestGetSession_NotFound(t *testing.T) {
	r, _, _, _ := newTestRegistry(testConfig())

	_, err := r.GetSession(context.Background(), "nope")
	assert.Equal(t, "NotFoundError", appCode(t, err))
}

func TestJoinSession_CreatesCanonicalSession(t *testing.T) {
	r, wallet, _, _ := newTestRegistry(testConfig())
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	session, player, err := r.JoinSession(ctx, "", "u1", []int{0, 1}, cost)
	require.NoError(t, err)

	assert.Equal(t, models.StateWaiting, session.State)
	assert.Equal(t, "u1", player.UserID)
	assert.ElementsMatch(t, []int{0, 1}, player.CardIndices)
	assert.True(t, player.Stake.Equal(decimal.NewFromInt(20)), "stake is cards x cost")
	assert.True(t, session.Pot.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 1, wallet.debitCalls)

	// A second anonymous join lands in the same canonical session.
	session2, _, err := r.JoinSession(ctx, "", "u2", []int{2}, cost)
	require.NoError(t, err)
	assert.Equal(t, session.ID, session2.ID)
}

func TestJoinSession_Idempotent(t *testing.T) {
	r, wallet, _, _ := newTestRegistry(testConfig())
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	session, first, err := r.JoinSession(ctx, "", "u1", []int{0}, cost)
	require.NoError(t, err)

	again, second, err := r.JoinSession(ctx, session.ID, "u1", []int{5, 6}, cost)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same player record returned")
	assert.Equal(t, session.ID, again.ID)
	assert.Len(t, again.Players, 1)
	assert.Equal(t, 1, wallet.debitCalls, "stake charged once")

	reservations, err := r.Reservations(ctx)
	require.NoError(t, err)
	assert.Len(t, reservations, 1, "no second reservation")
}

func TestJoinSession_Validation(t *testing.T) {
	r, _, _, _ := newTestRegistry(testConfig())
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	t.Run("too many cards", func(t *testing.T) {
		_, _, err := r.JoinSession(ctx, "", "u1", []int{0, 1, 2, 3}, cost)
		assert.Equal(t, "ValidationError", appCode(t, err))
	})

	t.Run("no cards", func(t *testing.T) {
		_, _, err := r.JoinSession(ctx, "", "u1", nil, cost)
		assert.Equal(t, "ValidationError", appCode(t, err))
	})

	t.Run("index out of range", func(t *testing.T) {
		_, _, err := r.JoinSession(ctx, "", "u1", []int{20}, cost)
		assert.Equal(t, "InvalidSelection", appCode(t, err))
	})

	t.Run("duplicate index", func(t *testing.T) {
		_, _, err := r.JoinSession(ctx, "", "u1", []int{4, 4}, cost)
		assert.Equal(t, "InvalidSelection", appCode(t, err))
	})

	t.Run("non-positive card cost", func(t *testing.T) {
		_, _, err := r.JoinSession(ctx, "", "u1", []int{0}, decimal.Zero)
		assert.Equal(t, "ValidationError", appCode(t, err))
	})

	// None of the rejections reserved anything.
	reservations, err := r.Reservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

func TestJoinSession_CardUnavailable(t *testing.T) {
	r, _, _, _ := newTestRegistry(testConfig())
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	_, _, err := r.JoinSession(ctx, "", "u1", []int{0, 1}, cost)
	require.NoError(t, err)

	_, _, err = r.JoinSession(ctx, "", "u2", []int{1, 2}, cost)
	assert.Equal(t, "CardUnavailable", appCode(t, err))

	// All-or-nothing: index 2 must still be free after the failed join.
	_, _, err = r.JoinSession(ctx, "", "u3", []int{2}, cost)
	require.NoError(t, err)
}

func TestJoinSession_SessionFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPlayers = 2
	r, _, _, _ := newTestRegistry(cfg)
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	session, _, err := r.JoinSession(ctx, "", "u1", []int{0}, cost)
	require.NoError(t, err)
	_, _, err = r.JoinSession(ctx, session.ID, "u2", []int{1}, cost)
	require.NoError(t, err)

	_, _, err = r.JoinSession(ctx, session.ID, "u3", []int{2}, cost)
	assert.Equal(t, "SessionFull", appCode(t, err))
}

func TestJoinSession_NotFound(t *testing.T) {
	r, _, _, _ := newTestRegistry(testConfig())

	_, _, err := r.JoinSession(context.Background(), "missing-id", "u1", []int{0}, decimal.NewFromInt(10))
	assert.Equal(t, "NotFoundError", appCode(t, err))
}

func TestJoinSession_CountdownTrigger(t *testing.T) {
	r, _, pub, starter := newTestRegistry(testConfig())
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	session, _, err := r.JoinSession(ctx, "", "u1", []int{0}, cost)
	require.NoError(t, err)
	assert.Equal(t, models.StateWaiting, session.State)
	assert.Empty(t, starter.calls, "loop must not start below minPlayers")

	session, _, err = r.JoinSession(ctx, session.ID, "u2", []int{1}, cost)
	require.NoError(t, err)
	assert.Equal(t, models.StateCountdown, session.State)
	require.Len(t, starter.calls, 1)
	assert.Equal(t, session.ID, starter.calls[0])

	transitions := pub.eventsOfType(models.EventGameState)
	require.Len(t, transitions, 1)
	assert.Equal(t, models.StateCountdown, transitions[0].ev.Data.(models.GameStateEvent).State)

	// A third join must not re-trigger the countdown.
	_, _, err = r.JoinSession(ctx, session.ID, "u3", []int{2}, cost)
	require.NoError(t, err)
	assert.Len(t, starter.calls, 1)
}

func TestJoinSession_DebitFailureReleasesCards(t *testing.T) {
	r, wallet, _, _ := newTestRegistry(testConfig())
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	wallet.failDebit = true
	_, _, err := r.JoinSession(ctx, "", "u1", []int{0}, cost)
	assert.Equal(t, "InsufficientBalance", appCode(t, err))

	wallet.failDebit = false
	_, _, err = r.JoinSession(ctx, "", "u2", []int{0}, cost)
	require.NoError(t, err, "failed join must not leave the card reserved")
}

func TestReleaseSessionCards(t *testing.T) {
	r, _, _, _ := newTestRegistry(testConfig())
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	session, _, err := r.JoinSession(ctx, "", "u1", []int{0, 1}, cost)
	require.NoError(t, err)
	session, _, err = r.JoinSession(ctx, session.ID, "u2", []int{2}, cost)
	require.NoError(t, err)

	require.NoError(t, r.ReleaseSessionCards(ctx, session))

	reservations, err := r.Reservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yebeniyam/bingo/config"
	"github.com/yebeniyam/bingo/models"
	"github.com/yebeniyam/bingo/store"
)

var (
	defaultBalance = decimal.RequireFromString("10.00")
	minAmount      = decimal.RequireFromString("1.00")
	maxDeposit     = decimal.NewFromInt(10000)
	maxWithdraw    = decimal.NewFromInt(5000)
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Wallet manages balances and the transaction audit log on top of the store.
// First-seen users start at 10.00. Balance writes are whole-value replace,
// last writer wins; the transaction log is audit only, never summed.
type Wallet struct {
	store    store.Store
	provider PaymentProvider
	cfg      *config.Config
	log      *zap.SugaredLogger
}

func NewWallet(st store.Store, provider PaymentProvider, cfg *config.Config, log *zap.SugaredLogger) *Wallet {
	return &Wallet{store: st, provider: provider, cfg: cfg, log: log}
}

// Balance returns the user's stored balance, or the default for first-seen
// users. Nothing is written until the first mutation.
func (w *Wallet) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var bal models.Balance
	ok, err := store.GetJSON(ctx, w.store, store.BalanceKey(userID), &bal)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return defaultBalance, nil
	}
	return bal.Amount, nil
}

func (w *Wallet) saveBalance(ctx context.Context, userID string, amount decimal.Decimal) error {
	bal := models.Balance{UserID: userID, Amount: amount, UpdatedAt: time.Now()}
	return store.PutJSON(ctx, w.store, store.BalanceKey(userID), bal, w.cfg.WalletTTL)
}

// Deposit credits the user after the provider confirms the transfer.
func (w *Wallet) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	if amount.LessThan(minAmount) {
		return nil, decimal.Zero, models.ErrValidation("deposit amount must be at least %s", minAmount)
	}
	if amount.GreaterThan(maxDeposit) {
		return nil, decimal.Zero, models.ErrValidation("deposit amount must not exceed %s", maxDeposit)
	}

	ref, err := w.provider.Deposit(ctx, userID, amount)
	if err != nil {
		w.log.Errorf("deposit for user %s failed at provider: %v", userID, err)
		return nil, decimal.Zero, models.ErrUpstreamPayment(err)
	}

	current, err := w.Balance(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	newBalance := current.Add(amount)
	if err := w.saveBalance(ctx, userID, newBalance); err != nil {
		return nil, decimal.Zero, err
	}

	tx := w.record(ctx, userID, amount, models.TransactionDeposit, ref)
	w.log.Infof("user %s deposited %s, balance %s", userID, amount, newBalance)
	return tx, newBalance, nil
}

// Withdraw debits the user after validating limits and funds.
func (w *Wallet) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*models.Transaction, decimal.Decimal, error) {
	if amount.LessThan(minAmount) {
		return nil, decimal.Zero, models.ErrValidation("withdrawal amount must be at least %s", minAmount)
	}
	if amount.GreaterThan(maxWithdraw) {
		return nil, decimal.Zero, models.ErrValidation("withdrawal amount must not exceed %s", maxWithdraw)
	}

	current, err := w.Balance(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if amount.GreaterThan(current) {
		return nil, decimal.Zero, models.ErrInsufficientBalance(current, amount)
	}

	ref, err := w.provider.Withdraw(ctx, userID, amount)
	if err != nil {
		w.log.Errorf("withdrawal for user %s failed at provider: %v", userID, err)
		return nil, decimal.Zero, models.ErrUpstreamPayment(err)
	}

	newBalance := current.Sub(amount)
	if err := w.saveBalance(ctx, userID, newBalance); err != nil {
		return nil, decimal.Zero, err
	}

	tx := w.record(ctx, userID, amount, models.TransactionWithdraw, ref)
	w.log.Infof("user %s withdrew %s, balance %s", userID, amount, newBalance)
	return tx, newBalance, nil
}

// DebitStake charges a join stake. No provider round-trip; stakes move
// between the wallet and the pot inside the process.
func (w *Wallet) DebitStake(ctx context.Context, userID string, amount decimal.Decimal) error {
	current, err := w.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(current) {
		return models.ErrInsufficientBalance(current, amount)
	}
	if err := w.saveBalance(ctx, userID, current.Sub(amount)); err != nil {
		return err
	}
	w.record(ctx, userID, amount, models.TransactionStake, "")
	return nil
}

// CreditPrize settles a winner's share.
func (w *Wallet) CreditPrize(ctx context.Context, userID string, amount decimal.Decimal) error {
	current, err := w.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if err := w.saveBalance(ctx, userID, current.Add(amount)); err != nil {
		return err
	}
	w.record(ctx, userID, amount, models.TransactionPrize, "")
	w.log.Infof("user %s credited prize %s", userID, amount)
	return nil
}

// History returns the user's transactions of one kind, newest first.
func (w *Wallet) History(ctx context.Context, userID string, kind models.TransactionKind, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	all, err := w.loadTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, limit)
	for _, tx := range all {
		if kind != "" && tx.Kind != kind {
			continue
		}
		out = append(out, tx)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (w *Wallet) loadTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	var all []models.Transaction
	if _, err := store.GetJSON(ctx, w.store, store.TransactionsKey(userID), &all); err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

// record appends a write-once audit entry. Log failures are logged and
// swallowed: the balance move already happened and audit is best effort here.
func (w *Wallet) record(ctx context.Context, userID string, amount decimal.Decimal, kind models.TransactionKind, ref string) *models.Transaction {
	tx := models.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Kind:      kind,
		Status:    models.TransactionCompleted,
		Reference: ref,
		CreatedAt: time.Now(),
	}

	all, err := w.loadTransactions(ctx, userID)
	if err != nil {
		w.log.Errorf("failed to load transaction log for user %s: %v", userID, err)
		return &tx
	}
	all = append([]models.Transaction{tx}, all...)
	if err := store.PutJSON(ctx, w.store, store.TransactionsKey(userID), all, w.cfg.WalletTTL); err != nil {
		w.log.Errorf("failed to append transaction for user %s: %v", userID, err)
	}
	return &tx
}

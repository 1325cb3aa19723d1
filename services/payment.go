package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentProvider is the opaque mobile-money integration: move funds, get a
// reference id back or an error. Retrying failures is the client's job.
type PaymentProvider interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (string, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (string, error)
}

// MockProvider stands in for the real provider in this demo. Every call
// succeeds and returns a fresh reference id.
type MockProvider struct {
	log *zap.SugaredLogger
}

func NewMockProvider(log *zap.SugaredLogger) *MockProvider {
	return &MockProvider{log: log}
}

func (m *MockProvider) Deposit(_ context.Context, userID string, amount decimal.Decimal) (string, error) {
	ref := uuid.NewString()
	m.log.Infof("mock provider: deposit %s for user %s ref %s", amount, userID, ref)
	return ref, nil
}

func (m *MockProvider) Withdraw(_ context.Context, userID string, amount decimal.Decimal) (string, error) {
	ref := uuid.NewString()
	m.log.Infof("mock provider: withdraw %s for user %s ref %s", amount, userID, ref)
	return ref, nil
}

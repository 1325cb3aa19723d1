// Package store exposes the key-value persistence substrate the game runs
// on: values with per-key TTLs, single-key operations only. Whether keys live
// in process memory or in postgres is a wiring decision in main.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Store is a key-value store with expiry. Put overwrites unconditionally;
// Get reports absent (not an error) for missing or expired keys. All call
// sites do single-key read-modify-write, which is not atomic: concurrent
// writers to the same key race and the last write wins.
type Store interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}

// PutJSON marshals v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, b, ttl)
}

// GetJSON loads key into out. Returns false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, out interface{}) (bool, error) {
	b, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal(b, out)
}

// Key layout. Sessions expire after about an hour untouched; wallet keys
// live for about a month. Both are store-level TTLs.

const (
	CurrentSessionKey = "session:current"
	ReservationsKey   = "reservations"
)

func SessionKey(id string) string { return "session:" + id }

func BalanceKey(userID string) string { return "balance:" + userID }

func TransactionsKey(userID string) string { return "transactions:" + userID }

package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRecord is the single relational table behind the postgres backend.
type KVRecord struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"not null"`
	ExpiresAt *time.Time     `gorm:"index"`
	UpdatedAt time.Time
}

func (KVRecord) TableName() string { return "kv_records" }

// Postgres keeps keys in a kv_records table. Expiry is enforced on read;
// expired rows are deleted lazily.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	rec := KVRecord{Key: key, Value: datatypes.JSON(value)}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		rec.ExpiresAt = &exp
	}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&rec).Error
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec KVRecord
	err := p.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if rec.ExpiresAt != nil && rec.ExpiresAt.Before(time.Now()) {
		_ = p.db.WithContext(ctx).Delete(&KVRecord{}, "key = ?", key).Error
		return nil, false, nil
	}
	return []byte(rec.Value), true, nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	return p.db.WithContext(ctx).Delete(&KVRecord{}, "key = ?", key).Error
}

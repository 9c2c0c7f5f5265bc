// Package repo implements the persistence layer, backed by GORM. This file
// provides the Seen-Event Store: a durable set of provider notification ids
// that have already been handled.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/negan-1/lockme-discord-bot/internal/domain"
)

// ErrEmptyEventID is returned for blank ids; they are never stored.
var ErrEmptyEventID = errors.New("empty event id")

// HasSeen reports whether eventID has been recorded.
func HasSeen(ctx context.Context, db *gorm.DB, eventID string) (bool, error) {
	if strings.TrimSpace(eventID) == "" {
		return false, ErrEmptyEventID
	}
	var rec domain.SeenEvent
	err := db.WithContext(ctx).
		Select("msg_id").
		Where("msg_id = ?", eventID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkSeen inserts eventID. A duplicate insert (including two concurrent
// inserts of the same id) is a no-op, never an error.
func MarkSeen(ctx context.Context, db *gorm.DB, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return ErrEmptyEventID
	}
	rec := &domain.SeenEvent{EventID: eventID, RecordedAt: time.Now().UTC()}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "msg_id"}}, DoNothing: true}).
		Create(rec).Error
	if err != nil && isDuplicate(err) {
		// Some drivers still surface the conflict when the clause is dropped.
		return nil
	}
	return err
}

// CountSeen returns the number of recorded ids.
func CountSeen(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.SeenEvent{}).Count(&n).Error
	return n, err
}

// isDuplicate detects unique-constraint violations across drivers that may
// not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// SeenStore binds the seen functions to a handle and bounds every round
// trip with Timeout. It is safe for concurrent use.
type SeenStore struct {
	DB      *gorm.DB
	Timeout time.Duration
}

// NewSeenStore returns a store with a 5s default timeout.
func NewSeenStore(db *gorm.DB, timeout time.Duration) *SeenStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SeenStore{DB: db, Timeout: timeout}
}

// Has reports whether eventID was already handled.
func (s *SeenStore) Has(ctx context.Context, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return HasSeen(ctx, s.DB, eventID)
}

// Record marks eventID as handled.
func (s *SeenStore) Record(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return MarkSeen(ctx, s.DB, eventID)
}

// Ping checks the underlying connection.
func (s *SeenStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

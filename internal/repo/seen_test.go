package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/negan-1/lockme-discord-bot/internal/domain"
)

func newSeenDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if migrate {
		if err := db.AutoMigrate(&domain.SeenEvent{}); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestHasSeen_EmptyID(t *testing.T) {
	db := newSeenDB(t, true)
	ok, err := HasSeen(context.Background(), db, "  ")
	if ok || err != ErrEmptyEventID {
		t.Fatalf("expected (false, ErrEmptyEventID), got (%v, %v)", ok, err)
	}
	if err := MarkSeen(context.Background(), db, ""); err != ErrEmptyEventID {
		t.Fatalf("MarkSeen empty: expected ErrEmptyEventID, got %v", err)
	}
}

func TestMarkSeen_ThenHasSeen(t *testing.T) {
	db := newSeenDB(t, true)
	ctx := context.Background()

	ok, err := HasSeen(ctx, db, "abc123")
	if err != nil || ok {
		t.Fatalf("before insert: (%v, %v)", ok, err)
	}
	if err := MarkSeen(ctx, db, "abc123"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	ok, err = HasSeen(ctx, db, "abc123")
	if err != nil || !ok {
		t.Fatalf("after insert: (%v, %v)", ok, err)
	}
}

func TestMarkSeen_DuplicateIsNoop(t *testing.T) {
	db := newSeenDB(t, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := MarkSeen(ctx, db, "dup"); err != nil {
			t.Fatalf("MarkSeen #%d: %v", i, err)
		}
	}
	n, err := CountSeen(ctx, db)
	if err != nil {
		t.Fatalf("CountSeen: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one row, got %d", n)
	}
}

// Generic DB error path: table missing.
func TestSeen_Error_NoTable(t *testing.T) {
	db := newSeenDB(t, false)
	if _, err := HasSeen(context.Background(), db, "x"); err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err := MarkSeen(context.Background(), db, "x"); err == nil {
		t.Fatalf("expected error when table is missing")
	}
}

func TestSeenStore_ConcurrentSameID(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "seen.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	store := NewSeenStore(db, 10*time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Record(ctx, "same-id")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Record: %v", err)
		}
	}

	n, err := CountSeen(ctx, db)
	if err != nil || n != 1 {
		t.Fatalf("expected one row, got n=%d err=%v", n, err)
	}
	ok, err := store.Has(ctx, "same-id")
	if err != nil || !ok {
		t.Fatalf("Has after concurrent Record: (%v, %v)", ok, err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestNewSeenStore_DefaultTimeout(t *testing.T) {
	s := NewSeenStore(nil, 0)
	if s.Timeout != 5*time.Second {
		t.Fatalf("default timeout = %v", s.Timeout)
	}
}

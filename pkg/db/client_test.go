package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type txTestModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&txTestModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&txTestModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := conn.Model(&txTestModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	boom := errors.New("boom")
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&txTestModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the unit of work's error, got %v", err)
	}
	if err := conn.Model(&txTestModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn}

	var before int64
	if err := conn.Model(&txTestModel{}).Count(&before).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&txTestModel{Name: "panicked"}).Error; err != nil {
				return err
			}
			panic("mid-transaction failure")
		})
	}()

	var after int64
	if err := conn.Model(&txTestModel{}).Count(&after).Error; err != nil {
		t.Fatalf("count failed after panic: %v", err)
	}
	if after != before {
		t.Fatalf("expected no new records after panic, got %d -> %d", before, after)
	}
}

func TestWithTxBoundsConnectionAcquisition(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn, acquireTimeout: time.Nanosecond}

	called := false
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected begin to fail once the acquire window is exceeded")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if called {
		t.Fatal("unit of work must not run without a transaction")
	}
}

func TestWithTxAcquireTimeoutDoesNotCancelWork(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn, acquireTimeout: 20 * time.Millisecond}

	// The acquire window bounds only the Begin; the unit of work keeps the
	// caller's context and may outlive it.
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		time.Sleep(40 * time.Millisecond)
		return tx.Create(&txTestModel{Name: "slow-but-committed"}).Error
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	var count int64
	if err := conn.Model(&txTestModel{}).Where("name = ?", "slow-but-committed").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

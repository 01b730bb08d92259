package service

import (
	"context"
	"testing"
	"time"
)

func TestAcquireLock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	before := time.Now().UTC()

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "ws-01", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if !lock.Active {
		t.Error("lock should be active")
	}

	if lock.LockedBy != "alice" || lock.ClientID != "ws-01" {
		t.Errorf("unexpected holder: %s/%s", lock.LockedBy, lock.ClientID)
	}

	wantExpiry := before.Add(15 * time.Minute)
	if lock.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || lock.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiry %v not near %v", lock.ExpiresAt, wantExpiry)
	}
}

func TestAcquireLockMissingFile(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AcquireLock(context.Background(), "no-such-file", "alice", "", 0)
	if !IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestAcquireLockConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	first, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("alice acquire: %v", err)
	}

	_, err = svc.AcquireLock(ctx, file.ID, "bob", "", 0)

	conflict, ok := AsConflict(err)
	if !ok {
		t.Fatalf("want ConflictError, got %v", err)
	}

	if conflict.Holder != "alice" {
		t.Errorf("conflict holder = %s, want alice", conflict.Holder)
	}

	if !conflict.ExpiresAt.Equal(first.ExpiresAt) {
		t.Errorf("conflict expiry = %v, want %v", conflict.ExpiresAt, first.ExpiresAt)
	}
}

func TestAcquireLockIdempotentSameHolder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	first, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	second, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second acquire minted new lock %s, want %s", second.ID, first.ID)
	}

	// 重复签出不是续约，到期时间不得延长
	if !second.ExpiresAt.Equal(first.ExpiresAt) {
		t.Errorf("idempotent acquire extended lease: %v -> %v", first.ExpiresAt, second.ExpiresAt)
	}
}

func TestAcquireLockAfterExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	stale, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("alice acquire: %v", err)
	}

	backdateLock(t, svc, stale.ID)

	fresh, err := svc.AcquireLock(ctx, file.ID, "bob", "", 0)
	if err != nil {
		t.Fatalf("bob acquire after expiry: %v", err)
	}

	if fresh.ID == stale.ID {
		t.Error("expired lock should not be reused")
	}

	if fresh.LockedBy != "bob" {
		t.Errorf("new holder = %s, want bob", fresh.LockedBy)
	}

	// 过期行被惰性翻转为非活跃
	reloaded := reloadLock(t, svc, stale.ID)
	if reloaded.Active {
		t.Error("stale lock should have been flipped inactive")
	}
}

func TestAcquireLockLeaseClamped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	before := time.Now().UTC()

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 10*time.Hour)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	maxExpiry := before.Add(2*time.Hour + time.Minute)
	if lock.ExpiresAt.After(maxExpiry) {
		t.Errorf("lease not clamped: expires %v", lock.ExpiresAt)
	}
}

func TestHeartbeatLock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	renewed, err := svc.HeartbeatLock(ctx, lock.ID, "alice", 30*time.Minute)
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	if !renewed.ExpiresAt.After(lock.ExpiresAt) {
		t.Errorf("heartbeat did not extend lease: %v -> %v", lock.ExpiresAt, renewed.ExpiresAt)
	}
}

func TestHeartbeatLockWrongHolder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, err := svc.HeartbeatLock(ctx, lock.ID, "bob", 0); !IsNotFound(err) {
		t.Fatalf("want NotFoundError for wrong holder, got %v", err)
	}
}

func TestHeartbeatLockExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	backdateLock(t, svc, lock.ID)

	// 过期租约不能靠心跳复活，客户端必须重新签出
	if _, err := svc.HeartbeatLock(ctx, lock.ID, "alice", 0); !IsNotFound(err) {
		t.Fatalf("want NotFoundError for expired lease, got %v", err)
	}
}

func TestReleaseLock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if err := svc.ReleaseLock(ctx, lock.ID, "alice"); err != nil {
		t.Fatalf("release: %v", err)
	}

	// 归还后其他人可以立即签出
	if _, err := svc.AcquireLock(ctx, file.ID, "bob", "", 0); err != nil {
		t.Fatalf("bob acquire after release: %v", err)
	}
}

func TestReleaseLockWrongHolder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if err := svc.ReleaseLock(ctx, lock.ID, "bob"); !IsNotFound(err) {
		t.Fatalf("want NotFoundError for wrong holder, got %v", err)
	}
}

func TestReleaseLockTwice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if err := svc.ReleaseLock(ctx, lock.ID, "alice"); err != nil {
		t.Fatalf("first release: %v", err)
	}

	if err := svc.ReleaseLock(ctx, lock.ID, "alice"); !IsNotFound(err) {
		t.Fatalf("want NotFoundError for second release, got %v", err)
	}
}

func TestGetActiveLockLazyExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	file := mustCreateFile(t, svc, "ledger.xlsx")

	lock, err := svc.AcquireLock(ctx, file.ID, "alice", "", 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	active, err := svc.GetActiveLock(ctx, file.ID)
	if err != nil {
		t.Fatalf("get active lock: %v", err)
	}

	if active == nil || active.ID != lock.ID {
		t.Fatalf("expected active lock %s, got %+v", lock.ID, active)
	}

	backdateLock(t, svc, lock.ID)

	active, err = svc.GetActiveLock(ctx, file.ID)
	if err != nil {
		t.Fatalf("get active lock after expiry: %v", err)
	}

	if active != nil {
		t.Errorf("expired lock reported active: %+v", active)
	}

	reloaded := reloadLock(t, svc, lock.ID)
	if reloaded.Active {
		t.Error("observation should have flipped expired lock inactive")
	}
}

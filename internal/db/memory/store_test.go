package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/stylesearch/internal/db"
)

func TestStore_GetSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	value := []byte("v1")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("Get = %q, want v1 (stored value must be a copy)", got)
	}
}

func TestStore_TTL(t *testing.T) {
	s := NewStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("expected key before expiry, got %v", err)
	}

	now = now.Add(time.Second)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestStore_SweepsUnreadExpiredKeys(t *testing.T) {
	s := NewStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.SetWithTTL(ctx, "abandoned-1", []byte("v"), time.Minute)
	_ = s.SetWithTTL(ctx, "abandoned-2", []byte("v"), time.Minute)
	_ = s.Set(ctx, "forever", []byte("v"))
	if got := s.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}

	now = now.Add(2 * time.Minute)
	_ = s.SetWithTTL(ctx, "fresh", []byte("v"), time.Minute)

	if got := s.Len(); got != 2 {
		t.Errorf("Len = %d, want 2 (expired keys swept)", got)
	}
	if _, err := s.Get(ctx, "forever"); err != nil {
		t.Errorf("key without TTL must survive the sweep: %v", err)
	}
	if _, err := s.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh key: %v", err)
	}
}

func TestStore_SweepThrottled(t *testing.T) {
	s := NewStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.SetWithTTL(ctx, "a", []byte("v"), time.Second)
	now = now.Add(2 * time.Second)
	_ = s.SetWithTTL(ctx, "b", []byte("v"), time.Minute)

	// Less than sweepInterval since the first write's sweep.
	if got := s.Len(); got != 2 {
		t.Errorf("Len = %d, want 2 before the next sweep", got)
	}

	now = now.Add(sweepInterval)
	_ = s.SetWithTTL(ctx, "c", []byte("v"), time.Minute)
	if _, ok := s.data["a"]; ok {
		t.Error("expired key a should be swept")
	}
}

func TestStore_Del(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("v"))
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after Del, got %v", err)
	}
	if err := s.Del(ctx, "missing"); err != nil {
		t.Errorf("Del on missing key: %v", err)
	}
}

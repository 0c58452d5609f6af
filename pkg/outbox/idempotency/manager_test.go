package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	keys    map[string]bool
	deleted []string
}

func (s *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.keys == nil {
		s.keys = map[string]bool{}
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.keys, key)
		s.deleted = append(s.deleted, key)
	}
	return nil
}

func (s *memoryStore) EventKey(consumer, eventID string) string {
	return "nengoo:evt:processed:" + consumer + ":" + eventID
}

func TestCheckAndMarkProcessed(t *testing.T) {
	store := &memoryStore{}
	manager, err := NewManager(store, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	eventID := uuid.New()
	already, err := manager.CheckAndMarkProcessed(context.Background(), "orders-worker", eventID)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if already {
		t.Fatal("expected first delivery to be fresh")
	}

	already, err = manager.CheckAndMarkProcessed(context.Background(), "orders-worker", eventID)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !already {
		t.Fatal("expected redelivery to be marked processed")
	}
}

func TestDeleteAllowsRetry(t *testing.T) {
	store := &memoryStore{}
	manager, err := NewManager(store, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	eventID := uuid.New()
	if _, err := manager.CheckAndMarkProcessed(context.Background(), "orders-worker", eventID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := manager.Delete(context.Background(), "orders-worker", eventID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	already, err := manager.CheckAndMarkProcessed(context.Background(), "orders-worker", eventID)
	if err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if already {
		t.Fatal("expected event to be retryable after delete")
	}
}

func TestManagerValidation(t *testing.T) {
	if _, err := NewManager(nil, time.Hour); err == nil {
		t.Fatal("expected nil store to be rejected")
	}

	manager, err := NewManager(&memoryStore{}, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := manager.CheckAndMarkProcessed(context.Background(), "", uuid.New()); err == nil {
		t.Fatal("expected empty consumer to be rejected")
	}
	if _, err := manager.CheckAndMarkProcessed(context.Background(), "orders-worker", uuid.Nil); err == nil {
		t.Fatal("expected nil event id to be rejected")
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nengoo-market/nengoo-backend/pkg/config"
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox"
)

type stubOutboxRepo struct {
	pending   []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (s *stubOutboxRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if limit > len(s.pending) {
		limit = len(s.pending)
	}
	return s.pending[:limit], nil
}

func (s *stubOutboxRepo) MarkPublished(id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(id uuid.UUID, err error) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubResult struct {
	err error
}

func (s stubResult) Get(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "msg-1", nil
}

type stubPublisher struct {
	messages []*gcppubsub.Message
	err      error
}

func (s *stubPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	s.messages = append(s.messages, msg)
	return stubResult{err: s.err}
}

func testOutboxService(t *testing.T, repo outboxRepository, pub publisher) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Outbox.BatchSize = 10
	cfg.Outbox.PollIntervalMS = 10
	cfg.Outbox.MaxAttempts = 3
	logg := logger.New(logger.Options{
		ServiceName: "outbox-publisher-test",
		Level:       zerolog.ErrorLevel,
		Output:      io.Discard,
	})
	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		Repository: repo,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func pendingEvent(t *testing.T) models.OutboxEvent {
	t.Helper()
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       json.RawMessage(`{"order_id":"x"}`),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := pendingEvent(t)
	repo := &stubOutboxRepo{pending: []models.OutboxEvent{event}}
	pub := &stubPublisher{}
	svc := testOutboxService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to be processed")
	}
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("expected event marked published, got %v", repo.published)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("expected no failures, got %v", repo.failed)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.Attributes["event_type"] != string(enums.EventOrderCreated) {
		t.Fatalf("unexpected event_type attribute %q", msg.Attributes["event_type"])
	}
	if msg.Attributes["event_id"] == "" {
		t.Fatal("expected event_id attribute from envelope")
	}
	if string(msg.Data) != string(event.Payload) {
		t.Fatal("expected payload forwarded unchanged")
	}
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	first := pendingEvent(t)
	second := pendingEvent(t)
	repo := &stubOutboxRepo{pending: []models.OutboxEvent{first, second}}
	pub := &stubPublisher{err: errors.New("broker unavailable")}
	svc := testOutboxService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to be processed")
	}
	if len(repo.failed) != 2 {
		t.Fatalf("expected both events marked failed, got %v", repo.failed)
	}
	if len(repo.published) != 0 {
		t.Fatalf("expected no publishes, got %v", repo.published)
	}
}

func TestProcessBatchEmptyIsIdle(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{}
	svc := testOutboxService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if processed {
		t.Fatal("expected idle batch")
	}
	if len(pub.messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(pub.messages))
	}
}

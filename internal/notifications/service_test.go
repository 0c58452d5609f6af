package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/pagination"
)

type stubNotificationsRepo struct {
	created     []*models.Notification
	listed      []models.Notification
	next        *pagination.Cursor
	markFound   bool
	markUpdated bool
	markedAll   int64
}

func (s *stubNotificationsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubNotificationsRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = uuid.New()
	s.created = append(s.created, notification)
	return nil
}

func (s *stubNotificationsRepo) List(ctx context.Context, params listParams) ([]models.Notification, *pagination.Cursor, error) {
	return s.listed, s.next, nil
}

func (s *stubNotificationsRepo) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID, now time.Time) (markResult, error) {
	return markResult{Found: s.markFound, Updated: s.markUpdated}, nil
}

func (s *stubNotificationsRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error) {
	return s.markedAll, nil
}

func TestListRequiresRecipient(t *testing.T) {
	svc, err := NewService(&stubNotificationsRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.List(context.Background(), ListParams{RecipientType: enums.RecipientTypeBuyer})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.List(context.Background(), ListParams{RecipientID: uuid.New(), RecipientType: "robot"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected invalid recipient type rejection, got %v", err)
	}
}

func TestListEncodesNextCursor(t *testing.T) {
	next := &pagination.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}
	repo := &stubNotificationsRepo{
		listed: []models.Notification{{ID: uuid.New(), Title: "Order update"}},
		next:   next,
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.List(context.Background(), ListParams{
		RecipientID:   uuid.New(),
		RecipientType: enums.RecipientTypeBuyer,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected encoded cursor")
	}
	parsed, err := pagination.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if parsed.ID != next.ID {
		t.Fatalf("cursor id mismatch: %v vs %v", parsed.ID, next.ID)
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	svc, err := NewService(&stubNotificationsRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.List(context.Background(), ListParams{
		RecipientID:   uuid.New(),
		RecipientType: enums.RecipientTypeSeller,
		Cursor:        "not-base64",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	svc, err := NewService(&stubNotificationsRepo{markFound: false})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	err = svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkReadIdempotentOnAlreadyRead(t *testing.T) {
	svc, err := NewService(&stubNotificationsRepo{markFound: true, markUpdated: false})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("marking an already read notification should succeed: %v", err)
	}
}

func TestMarkAllReadReturnsCount(t *testing.T) {
	svc, err := NewService(&stubNotificationsRepo{markedAll: 4})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4, got %d", count)
	}
}

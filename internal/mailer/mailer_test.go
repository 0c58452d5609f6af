package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nengoo-market/nengoo-backend/pkg/config"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "mailer-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestSendPostsToSendgrid(t *testing.T) {
	var received sendgridRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	mailer, err := New(config.SendgridConfig{
		APIKey:      "sg-test-key",
		DefaultFrom: "no-reply@nengoo.cm",
		BaseURL:     server.URL,
	}, testLogger())
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}

	err = mailer.Send(context.Background(), Message{
		To:      "buyer@example.com",
		ToName:  "Aissatou Bello",
		Subject: "Order confirmed",
		Body:    "Thanks for your order.",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if authHeader != "Bearer sg-test-key" {
		t.Fatalf("unexpected auth header %q", authHeader)
	}
	if received.Subject != "Order confirmed" {
		t.Fatalf("unexpected subject %q", received.Subject)
	}
	if len(received.Personalizations) != 1 || received.Personalizations[0].To[0].Email != "buyer@example.com" {
		t.Fatalf("unexpected recipients %+v", received.Personalizations)
	}
	if received.From.Email != "no-reply@nengoo.cm" {
		t.Fatalf("unexpected sender %q", received.From.Email)
	}
}

func TestSendSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer server.Close()

	mailer, err := New(config.SendgridConfig{
		APIKey:      "sg-test-key",
		DefaultFrom: "no-reply@nengoo.cm",
		BaseURL:     server.URL,
	}, testLogger())
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}

	err = mailer.Send(context.Background(), Message{To: "buyer@example.com", Subject: "x", Body: "y"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSendValidatesRecipient(t *testing.T) {
	mailer, err := New(config.SendgridConfig{APIKey: "k", BaseURL: "http://localhost"}, testLogger())
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}
	err = mailer.Send(context.Background(), Message{Subject: "x"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMissingAPIKeyDropsQuietly(t *testing.T) {
	mailer, err := New(config.SendgridConfig{}, testLogger())
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}
	if err := mailer.Send(context.Background(), Message{To: "b@example.com", Subject: "x"}); err != nil {
		t.Fatalf("noop mailer should not error: %v", err)
	}
}

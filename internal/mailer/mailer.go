package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nengoo-market/nengoo-backend/pkg/config"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
)

// Message is a single outbound transactional email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendgridMailer struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
	logg    *logger.Logger
}

// New builds a Sendgrid-backed mailer. An empty API key yields a mailer that
// logs and drops messages, which keeps local development working without
// credentials.
func New(cfg config.SendgridConfig, logg *logger.Logger) (Mailer, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.APIKey == "" {
		return &noopMailer{logg: logg}, nil
	}
	return &sendgridMailer{
		apiKey:  cfg.APIKey,
		from:    cfg.DefaultFrom,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logg:    logg,
	}, nil
}

type sendgridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridRequest struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

func (m *sendgridMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}
	if msg.Subject == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "subject required")
	}

	payload := sendgridRequest{
		Personalizations: []sendgridPersonalization{
			{To: []sendgridAddress{{Email: msg.To, Name: msg.ToName}}},
		},
		From:    sendgridAddress{Email: m.from},
		Subject: msg.Subject,
		Content: []sendgridContent{{Type: "text/plain", Value: msg.Body}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode mail payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build mail request")
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send mail")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("sendgrid returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	m.logg.Info(m.logg.WithFields(ctx, map[string]any{
		"recipient": msg.To,
		"subject":   msg.Subject,
	}), "email sent")
	return nil
}

type noopMailer struct {
	logg *logger.Logger
}

func (m *noopMailer) Send(ctx context.Context, msg Message) error {
	m.logg.Warn(m.logg.WithFields(ctx, map[string]any{
		"recipient": msg.To,
		"subject":   msg.Subject,
	}), "sendgrid api key not configured, dropping email")
	return nil
}

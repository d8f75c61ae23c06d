package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

// LogSink writes notifications to the structured log.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink writing through logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send logs the notification.
func (s *LogSink) Send(ctx context.Context, n model.Notification) error {
	level := slog.LevelInfo
	if n.Severity == model.SeverityError {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "notification",
		slog.Int64("customer_id", n.CustomerID),
		slog.String("severity", string(n.Severity)),
		slog.String("message", n.Message),
	)
	return nil
}

// WebhookSink posts notifications as JSON to an HTTP endpoint.
type WebhookSink struct {
	url        string
	httpClient *http.Client
}

type webhookPayload struct {
	CustomerID int64  `json:"customer_id"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
}

// NewWebhookSink creates a webhook sink for url.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{url: url, httpClient: &http.Client{Timeout: 5 * time.Second}}
}

// Send posts the notification. Any non-2xx response is an error.
func (s *WebhookSink) Send(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(webhookPayload{CustomerID: n.CustomerID, Severity: string(n.Severity), Message: n.Message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %s", resp.Status)
	}
	return nil
}

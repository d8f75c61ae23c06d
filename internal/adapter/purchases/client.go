// Package purchases talks to the external system that verifies customer
// purchases and reports the amount spent.
package purchases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
)

const defaultRetryAfter = 5 * time.Second

// ErrPurchaseNotRegistered indicates the verification system doesn't know the purchase yet.
var ErrPurchaseNotRegistered = errors.New("purchase not registered")

// TooManyRequestsError represents rate limiting signal from the verification system.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client verifies purchases.
type Client interface {
	Verify(ctx context.Context, number string) (*model.PurchaseVerification, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type response struct {
	Order      string           `json:"order"`
	Status     string           `json:"status"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	BusinessID *int64           `json:"business_id,omitempty"`
}

// NewHTTPClient creates HTTP verification client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse purchase system url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("purchase system url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Verify queries the verification system for a purchase.
func (c *HTTPClient) Verify(ctx context.Context, number string) (*model.PurchaseVerification, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/purchases/", number)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data response
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode verification: %w", err)
		}
		if data.Amount != nil && data.Amount.IsNegative() {
			return nil, fmt.Errorf("negative amount %s for purchase %s", data.Amount, number)
		}
		return &model.PurchaseVerification{
			Number:     data.Order,
			Status:     model.VerificationStatus(data.Status),
			Amount:     data.Amount,
			BusinessID: data.BusinessID,
		}, nil
	case http.StatusNoContent:
		return nil, ErrPurchaseNotRegistered
	case http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Error("purchase verification failed",
			slog.Int("status", resp.StatusCode),
			slog.String("number", number),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("purchase system error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}

// Package orderclient submits orders to an external orders API. Both the
// storefront checkout and any headless caller go through it so every device
// hits the same endpoint with the same payload and timeout behavior.
package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/model"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single order submission before it is aborted and
// reported as a timeout.
const DefaultTimeout = 20 * time.Second

// ErrTimeout is returned when the submission did not complete in time.
var ErrTimeout = errors.New("order submission timed out")

// Result is the orders API response body.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Client submits orders to a configurable API base URL.
type Client struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewClient creates an order submission client.
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		HTTPClient: &http.Client{},
		Timeout:    DefaultTimeout,
		Logger:     logger,
	}
}

// Endpoint builds the orders endpoint from an API base URL.
func Endpoint(apiBase string) string {
	return strings.TrimRight(apiBase, "/") + "/api/orders"
}

// Submit posts the order to the API at apiBase. The request is aborted
// after the client timeout and reported as ErrTimeout.
func (c *Client) Submit(ctx context.Context, apiBase string, order *model.Order) (*Result, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint(apiBase), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			if c.Logger != nil {
				c.Logger.Warn("Order submission timed out", zap.String("api_base", apiBase))
			}
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result Result
	// A non-JSON body on an error status still yields a usable Result.
	_ = json.Unmarshal(data, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if result.Error == "" {
			result.Error = fmt.Sprintf("Request failed (%d)", resp.StatusCode)
		}
		result.Success = false
		return &result, nil
	}

	if result.Success && result.ID != "" {
		return &result, nil
	}

	if result.Error == "" {
		result.Error = "Order could not be saved."
	}
	result.Success = false
	return &result, nil
}

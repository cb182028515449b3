package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// Channel selects the delivery medium for a one-time code.
type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
)

// Dispatcher requests black-box notification effects. Delivery failures are
// logged by callers, never fatal to the order flow.
type Dispatcher interface {
	SendCode(ctx context.Context, channel Channel, destination, code string) error
	NotifyOrderCreated(ctx context.Context, order *model.Order) error
}

// HTTPClient implements Dispatcher via the notification service HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates HTTP notification client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notify url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

type codeRequest struct {
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
	Code        string `json:"code"`
}

type orderCreatedRequest struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	ProductType string `json:"product_type"`
	SubType     string `json:"sub_type,omitempty"`
	UserAmount  string `json:"user_amount"`
}

// SendCode dispatches a plaintext one-time code over the given channel.
func (c *HTTPClient) SendCode(ctx context.Context, channel Channel, destination, code string) error {
	return c.post(ctx, "/api/notify/code", codeRequest{
		Channel:     string(channel),
		Destination: destination,
		Code:        code,
	})
}

// NotifyOrderCreated requests the order-created notification.
func (c *HTTPClient) NotifyOrderCreated(ctx context.Context, order *model.Order) error {
	return c.post(ctx, "/api/notify/order-created", orderCreatedRequest{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		ProductType: string(order.ProductType),
		SubType:     string(order.SubType),
		UserAmount:  order.UserAmount.String(),
	})
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notify request failed: %s", resp.Status)
	}
	return nil
}

package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// kindEndpoints names the venue routes serving one transaction kind.
type kindEndpoints struct {
	cart     string
	checkout string
	status   string
}

// endpoints must stay total over all six transaction kinds.
var endpoints = map[model.TransactionKind]kindEndpoints{
	model.KindOneTime:    {cart: "/api/cart/onetime", checkout: "/api/checkout/onetime", status: "/api/orders/onetime"},
	model.KindRecurring:  {cart: "/api/cart/recurring", checkout: "/api/checkout/recurring", status: "/api/orders/recurring"},
	model.KindRedemption: {cart: "/api/cart/redemption", checkout: "/api/checkout/redemption", status: "/api/orders/redemption"},
	model.KindSwitch:     {cart: "/api/cart/switch", checkout: "/api/checkout/switch", status: "/api/orders/switch"},
	model.KindSTP:        {cart: "/api/cart/stp", checkout: "/api/checkout/stp", status: "/api/orders/stp"},
	model.KindSWP:        {cart: "/api/cart/swp", checkout: "/api/checkout/swp", status: "/api/orders/swp"},
}

func resolve(kind model.TransactionKind) (kindEndpoints, error) {
	eps, ok := endpoints[kind]
	if !ok {
		return kindEndpoints{}, fmt.Errorf("%w: %s", domainErrors.ErrUnsupportedCartType, kind)
	}
	return eps, nil
}

// HTTPClient implements Gateway via the venue's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates HTTP venue client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse venue url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("venue url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type stagedItemsResponse struct {
	Items []StagedItem `json:"items"`
}

type addItemResponse struct {
	ItemID string `json:"item_id"`
}

type statusResponse struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	AdminAccepted bool   `json:"admin_accepted,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// ListStagedItems returns the items currently staged for the customer/kind pair.
func (c *HTTPClient) ListStagedItems(ctx context.Context, customerID string, kind model.TransactionKind) ([]StagedItem, error) {
	eps, err := resolve(kind)
	if err != nil {
		return nil, err
	}
	var data stagedItemsResponse
	if err := c.do(ctx, http.MethodGet, path.Join(eps.cart, customerID), nil, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// AddStagedItem stages one item and returns the venue-assigned item id.
func (c *HTTPClient) AddStagedItem(ctx context.Context, customerID string, kind model.TransactionKind, payload StagePayload) (string, error) {
	eps, err := resolve(kind)
	if err != nil {
		return "", err
	}
	var data addItemResponse
	if err := c.do(ctx, http.MethodPost, path.Join(eps.cart, customerID), payload, &data); err != nil {
		return "", err
	}
	return data.ItemID, nil
}

// RemoveStagedItem deletes one staged item.
func (c *HTTPClient) RemoveStagedItem(ctx context.Context, customerID string, kind model.TransactionKind, itemID string) error {
	eps, err := resolve(kind)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path.Join(eps.cart, customerID, itemID), nil, nil)
}

// Checkout converts the staged instruction into upstream orders.
func (c *HTTPClient) Checkout(ctx context.Context, customerID string, kind model.TransactionKind, payload CheckoutPayload) (*CheckoutResult, error) {
	eps, err := resolve(kind)
	if err != nil {
		return nil, err
	}
	var data CheckoutResult
	if err := c.do(ctx, http.MethodPost, path.Join(eps.checkout, customerID), payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// FetchStatus queries the venue for the state of one upstream order.
func (c *HTTPClient) FetchStatus(ctx context.Context, kind model.TransactionKind, upstreamOrderID string) (*model.StatusReport, error) {
	eps, err := resolve(kind)
	if err != nil {
		return nil, err
	}
	var data statusResponse
	if err := c.do(ctx, http.MethodGet, path.Join(eps.status, upstreamOrderID), nil, &data); err != nil {
		return nil, err
	}
	return &model.StatusReport{
		OrderID:       data.OrderID,
		Status:        data.Status,
		Message:       data.Message,
		AdminAccepted: data.AdminAccepted,
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", domainErrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s", domainErrors.ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: decode response: %s", domainErrors.ErrUpstreamUnavailable, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domainErrors.ErrNotFound
	default:
		message := upstreamMessage(raw, resp.Status)
		c.logger.Error("venue request failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("message", message),
		)
		return fmt.Errorf("%w: %s", domainErrors.ErrUpstreamUnavailable, message)
	}
}

// upstreamMessage surfaces the venue's own error text verbatim when present.
func upstreamMessage(raw []byte, fallback string) string {
	var data errorResponse
	if err := json.Unmarshal(raw, &data); err == nil && data.Message != "" {
		return data.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return fallback
}

package product

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
)

// Client exposes operations to query the product/pricing service.
type Client interface {
	GetProduct(ctx context.Context, isin string) (*model.Product, error)
	GetPrice(ctx context.Context, isin string, units decimal.Decimal) (*model.Quote, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type productResponse struct {
	ISIN      string `json:"isin"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Tradeable bool   `json:"tradeable"`
}

type quoteResponse struct {
	Price      decimal.Decimal `json:"price"`
	UserAmount decimal.Decimal `json:"user_amount"`
}

// NewHTTPClient creates HTTP product client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse product service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("product service url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// GetProduct fetches instrument classification and tradeability.
func (c *HTTPClient) GetProduct(ctx context.Context, isin string) (*model.Product, error) {
	var data productResponse
	if err := c.get(ctx, path.Join("/api/products", isin), &data); err != nil {
		return nil, err
	}
	return &model.Product{
		ISIN:      data.ISIN,
		Name:      data.Name,
		Category:  model.ProductType(data.Category),
		Tradeable: data.Tradeable,
	}, nil
}

// GetPrice fetches the priced value for the requested quantity.
func (c *HTTPClient) GetPrice(ctx context.Context, isin string, units decimal.Decimal) (*model.Quote, error) {
	endpoint := path.Join("/api/products", isin, "price")
	var data quoteResponse
	if err := c.get(ctx, endpoint+"?units="+units.String(), &data); err != nil {
		return nil, err
	}
	return &model.Quote{Price: data.Price, UserAmount: data.UserAmount}, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, out any) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	target := c.baseURL.ResolveReference(parsed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", domainErrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, out)
	case http.StatusNotFound:
		return domainErrors.ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("product request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("%w: %s", domainErrors.ErrUpstreamUnavailable, resp.Status)
	}
}

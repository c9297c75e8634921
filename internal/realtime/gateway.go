package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
)

// Gateway is the service boundary a view fetches from and mutates
// through. Tests substitute fakes; production uses HTTPGateway.
type Gateway interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}

// HTTPGateway talks to the order API over HTTP.
type HTTPGateway struct {
	baseURL      string
	client       *http.Client
	sessionToken string
	cookieName   string
}

// GatewayOption configures an HTTPGateway.
type GatewayOption func(*HTTPGateway)

// WithSessionToken attaches the session cookie to every request.
func WithSessionToken(cookieName, token string) GatewayOption {
	return func(g *HTTPGateway) {
		g.cookieName = cookieName
		g.sessionToken = token
	}
}

// NewHTTPGateway instantiates the gateway with sane defaults.
func NewHTTPGateway(baseURL string, httpClient *http.Client, opts ...GatewayOption) (*HTTPGateway, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gateway base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	g := &HTTPGateway{baseURL: baseURL, client: httpClient}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// ListOrders fetches the full server-held order list.
func (g *HTTPGateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	g.attachSession(req)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch orders: %s", apiMessage(resp))
	}
	var body struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return body.Orders, nil
}

// UpdateOrderStatus issues the status change and returns the confirmed
// record.
func (g *HTTPGateway) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	payload, err := json.Marshal(map[string]string{
		"orderId": id,
		"status":  string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("encode update request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, g.baseURL+"/api/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	g.attachSession(req)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("update order %s: %s", id, apiMessage(resp))
	}
	var body struct {
		Order *domain.Order `json:"order"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode updated order: %w", err)
	}
	if body.Order == nil {
		return nil, errors.New("order API returned an empty response")
	}
	return body.Order, nil
}

func (g *HTTPGateway) attachSession(req *http.Request) {
	if g.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: g.cookieName, Value: g.sessionToken})
	}
}

func apiMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return body.Message
	}
	return resp.Status
}

var _ Gateway = (*HTTPGateway)(nil)

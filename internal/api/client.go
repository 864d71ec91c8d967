// internal/api/client.go
//
// REST transport for the counter backend. The client attaches the bearer
// credential to every request, decodes the backend's {"detail": ...}
// error payloads, and forces a logout through the auth-expired hook when
// a 401 comes back. Business rules live in the packages above this one.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"frog-counter/internal/menu"
)

// TokenSource supplies the current bearer credential, or "" when logged
// out.
type TokenSource func() string

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	RoleID      int    `json:"role_id"`
}

// OrderLine is one dish inside an order, with the availability snapshot
// the backend captured for it.
type OrderLine struct {
	MenuItemID  int    `json:"id"`
	DishName    string `json:"dish_name"`
	Quantity    int    `json:"quantity"`
	IsAvailable bool   `json:"is_available"`
}

// Order is the staff-facing representation of a placed order.
type Order struct {
	ID        int         `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	StatusID  int         `json:"status_id"`
	Status    string      `json:"status,omitempty"`
	Items     []OrderLine `json:"items,omitempty"`
}

// BoardLine is one dish on the public display board.
type BoardLine struct {
	DishName string `json:"dish_name"`
	Quantity int    `json:"quantity"`
}

// BoardOrder is the read projection polled by the display board.
type BoardOrder struct {
	ID        int         `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Status    string      `json:"status"`
	Items     []BoardLine `json:"items"`
}

// ClientOption customizes Client construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithAuthExpiredHook registers the callback fired when the backend
// answers 401. Session invalidation happens there, at the session
// boundary, not inside the order controller.
func WithAuthExpiredHook(hook func()) ClientOption {
	return func(c *Client) {
		c.onAuthExpired = hook
	}
}

// Client talks to the counter backend.
type Client struct {
	baseURL       string
	http          *http.Client
	token         TokenSource
	onAuthExpired func()
}

// NewClient builds a client for the given base URL. token may be nil for
// an anonymous client.
func NewClient(baseURL string, timeout time.Duration, token TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Login exchanges credentials for a token and role.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// Menu reads the full menu.
func (c *Client) Menu(ctx context.Context) ([]menu.Item, error) {
	var items []menu.Item
	if err := c.do(ctx, http.MethodGet, "/api/menu", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateMenuItem pushes a full item representation and returns the
// server's echo. Quantity and availability always travel together.
func (c *Client) UpdateMenuItem(ctx context.Context, id int, item menu.Item) (menu.Item, error) {
	var updated menu.Item
	path := fmt.Sprintf("/api/menu/%d", id)
	if err := c.do(ctx, http.MethodPut, path, item, &updated); err != nil {
		return menu.Item{}, err
	}
	return updated, nil
}

// CreateOrder opens a new empty order and returns its server-assigned id.
func (c *Client) CreateOrder(ctx context.Context) (Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", struct{}{}, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// AttachItems adds the selected menu item ids to an open order.
func (c *Client) AttachItems(ctx context.Context, orderID int, itemIDs []int) error {
	body := map[string][]int{"menu_items": itemIDs}
	path := fmt.Sprintf("/api/cart/%d", orderID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// Orders reads the active orders for the staff view.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to the given status and returns the
// server-confirmed representation.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, statusID int) (Order, error) {
	body := map[string]int{"status_id": statusID}
	var order Order
	path := fmt.Sprintf("/api/orders/%d/status", orderID)
	if err := c.do(ctx, http.MethodPut, path, body, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// DeleteOrder purges a single order.
func (c *Client) DeleteOrder(ctx context.Context, orderID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/orders/%d", orderID), nil, nil)
}

// ClearOrders bulk-removes every active order.
func (c *Client) ClearOrders(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/orders", nil, nil)
}

// BoardOrders reads the display board projection.
func (c *Client) BoardOrders(ctx context.Context) ([]BoardOrder, error) {
	var orders []BoardOrder
	if err := c.do(ctx, http.MethodGet, "/api/tv/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrNetworkUnreachable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: decode %s %s: %w", method, path, err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrAuthRequired)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s %s (%d): %w", method, path, resp.StatusCode, ErrServerFault)
	default:
		return &RejectedError{Status: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}
}

// decodeDetail pulls the message out of a FastAPI-style error payload.
func decodeDetail(body io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}

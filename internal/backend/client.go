// Package backend is the typed client for the authoritative storefront REST
// API. The backend owns all business logic (pricing, stock, order state
// transitions); this client only issues requests and decodes responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the backend REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.AppMetrics
}

// NewClient creates a backend client. The transport is wrapped with
// otelhttp so outbound calls are instrumented.
func NewClient(baseURL string, timeout time.Duration, m *metrics.AppMetrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: m,
	}
}

// do issues a request and decodes a JSON response into out (if non-nil).
// Non-2xx responses become a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackendCall(ctx, method, path, start, false)
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.metrics.RecordBackendCall(ctx, method, path, start, success)

	if !success {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

func userHeader(userID string) map[string]string {
	return map[string]string{"userId": userID}
}

// --- Cart ---

// AddCartItemResponse is the backend's append/merge response. The backend
// can answer 200 with Success=false; callers must honor the flag.
type AddCartItemResponse struct {
	Success bool                  `json:"success"`
	Items   []models.CartLineItem `json:"items"`
	Error   string                `json:"error,omitempty"`
}

// CartItems fetches the authoritative cart for a customer.
func (c *Client) CartItems(ctx context.Context, userID string) ([]models.CartLineItem, error) {
	var items []models.CartLineItem
	path := fmt.Sprintf("/api/cart/customer/%s/items", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem appends or merges an item into the customer's server cart.
func (c *Client) AddCartItem(ctx context.Context, userID string, item models.CartLineItem) (*AddCartItemResponse, error) {
	// The backend assigns line ids; never send a local one.
	item.ID = 0
	var resp AddCartItemResponse
	path := fmt.Sprintf("/api/cart/customer/%s/items", userID)
	if err := c.do(ctx, http.MethodPost, path, nil, item, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteCartItem removes one line from the customer's server cart.
func (c *Client) DeleteCartItem(ctx context.Context, userID string, itemID int64) error {
	path := fmt.Sprintf("/api/cart/customer/%s/items/%d", userID, itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// --- Wishlist (actor id passed via request header, not the session) ---

// WishlistMutationResponse is returned by wishlist add/remove.
type WishlistMutationResponse struct {
	Message       string `json:"message"`
	WishlistCount int    `json:"wishlistCount"`
}

// Wishlist fetches the customer's wishlist.
func (c *Client) Wishlist(ctx context.Context, userID string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := c.do(ctx, http.MethodGet, "/api/wishlist", userHeader(userID), nil, &wishlist); err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// AddToWishlist adds a product to the customer's wishlist.
func (c *Client) AddToWishlist(ctx context.Context, userID string, productID int64) (*WishlistMutationResponse, error) {
	body := map[string]int64{"productId": productID}
	var resp WishlistMutationResponse
	if err := c.do(ctx, http.MethodPost, "/api/wishlist/add", userHeader(userID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveFromWishlist removes a product from the customer's wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, userID string, productID int64) (*WishlistMutationResponse, error) {
	var resp WishlistMutationResponse
	path := fmt.Sprintf("/api/wishlist/remove/%d", productID)
	if err := c.do(ctx, http.MethodDelete, path, userHeader(userID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckWishlist reports whether the product is already favorited.
func (c *Client) CheckWishlist(ctx context.Context, userID string, productID int64) (bool, error) {
	var resp struct {
		IsInWishlist bool `json:"isInWishlist"`
	}
	path := fmt.Sprintf("/api/wishlist/check/%d", productID)
	if err := c.do(ctx, http.MethodGet, path, userHeader(userID), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsInWishlist, nil
}

// WishlistCount fetches the size of the customer's wishlist.
func (c *Client) WishlistCount(ctx context.Context, userID string) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/wishlist/count", userHeader(userID), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// --- Orders ---

// CustomerOrders fetches a customer's order history.
func (c *Client) CustomerOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	path := fmt.Sprintf("/api/orders/customer/%s", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrderFromCart converts the customer's server cart into an order.
func (c *Client) CreateOrderFromCart(ctx context.Context, userID, method string) (*models.Order, error) {
	body := map[string]string{"method": method}
	var order models.Order
	path := fmt.Sprintf("/api/orders/customer/%s/from-cart", userID)
	if err := c.do(ctx, http.MethodPost, path, nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus requests a status transition; the backend validates it.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	path := fmt.Sprintf("/api/orders/%d/status", orderID)
	return c.do(ctx, http.MethodPut, path, nil, models.UpdateOrderStatusRequest{Status: status}, nil)
}

// AdminOrders fetches all orders for the back office.
func (c *Client) AdminOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/admin", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// --- Notifications ---

// Notifications fetches a customer's notifications.
func (c *Client) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	path := fmt.Sprintf("/api/notifications/customer/%s", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadNotificationCount fetches the customer's unread badge count.
func (c *Client) UnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	path := fmt.Sprintf("/api/notifications/customer/%s/unread-count", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkAllNotificationsRead marks every notification read for the customer.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	path := fmt.Sprintf("/api/notifications/customer/%s/mark-all-read", userID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// DeleteNotification removes one notification.
func (c *Client) DeleteNotification(ctx context.Context, notificationID int64) error {
	path := fmt.Sprintf("/api/notifications/%d", notificationID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// --- Admin products / customers ---

// AdminProducts fetches the full product catalog for the back office.
func (c *Client) AdminProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/admin/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, productID int64) error {
	path := fmt.Sprintf("/api/admin/products/%d", productID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Customers fetches the backend's customer listing.
func (c *Client) Customers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.do(ctx, http.MethodGet, "/api/admin/customers", nil, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

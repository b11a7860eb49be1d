package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/localcart"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/middleware"
	"github.com/Taboada40/PinoyHiratage/internal/models"
	"github.com/Taboada40/PinoyHiratage/internal/services"
	"github.com/Taboada40/PinoyHiratage/internal/session"
	"github.com/Taboada40/PinoyHiratage/pkg/config"
	"github.com/gorilla/mux"
)

// App holds application dependencies
type App struct {
	config        *config.Config
	metrics       *metrics.AppMetrics
	sessions      *session.Store
	cartService   *services.CartService
	wishlist      *services.WishlistService
	orderService  *services.OrderService
	notifications *services.NotificationService
	products      *services.ProductService
	customers     *services.CustomerService

	// one checkout wizard per actor scope
	mu      sync.Mutex
	wizards map[string]*wizard
}

// NewApp creates a new application instance
func NewApp(
	cfg *config.Config,
	m *metrics.AppMetrics,
	sessions *session.Store,
	cs *services.CartService,
	ws *services.WishlistService,
	os *services.OrderService,
	ns *services.NotificationService,
	ps *services.ProductService,
	us *services.CustomerService,
) *App {
	return &App{
		config:        cfg,
		metrics:       m,
		sessions:      sessions,
		cartService:   cs,
		wishlist:      ws,
		orderService:  os,
		notifications: ns,
		products:      ps,
		customers:     us,
		wizards:       make(map[string]*wizard),
	}
}

// SetupRoutes configures the HTTP routes
func (a *App) SetupRoutes(r *mux.Router) {
	// Middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.ErrorHandlerMiddleware)
	r.Use(middleware.MetricsMiddleware(a.metrics))

	// API Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Session
	api.HandleFunc("/session", a.GetSessionHandler).Methods("GET")
	api.HandleFunc("/session", a.PutSessionHandler).Methods("POST")
	api.HandleFunc("/session", a.LogoutHandler).Methods("DELETE")

	// Catalog
	api.HandleFunc("/products", a.CatalogHandler).Methods("GET")

	// Cart
	api.HandleFunc("/cart", a.GetCartHandler).Methods("GET")
	api.HandleFunc("/cart/add", a.AddToCartHandler).Methods("POST")
	api.HandleFunc("/cart/remove", a.RemoveFromCartHandler).Methods("POST")

	// Wishlist
	api.HandleFunc("/wishlist", a.GetWishlistHandler).Methods("GET")
	api.HandleFunc("/wishlist/add", a.AddToWishlistHandler).Methods("POST")
	api.HandleFunc("/wishlist/remove", a.RemoveFromWishlistHandler).Methods("POST")
	api.HandleFunc("/wishlist/check/{productId}", a.CheckWishlistHandler).Methods("GET")
	api.HandleFunc("/wishlist/count", a.WishlistCountHandler).Methods("GET")

	// Checkout wizard
	api.HandleFunc("/checkout", a.GetCheckoutHandler).Methods("GET")
	api.HandleFunc("/checkout/field", a.SetCheckoutFieldHandler).Methods("POST")
	api.HandleFunc("/checkout/proceed", a.ProceedToPaymentHandler).Methods("POST")
	api.HandleFunc("/checkout/discount", a.ApplyDiscountHandler).Methods("POST")
	api.HandleFunc("/checkout/discount", a.RemoveDiscountHandler).Methods("DELETE")
	api.HandleFunc("/checkout/payment", a.SetPaymentHandler).Methods("POST")
	api.HandleFunc("/checkout/confirm", a.ConfirmPaymentHandler).Methods("POST")
	api.HandleFunc("/checkout/locations", a.LocationsHandler).Methods("GET")

	// Orders
	api.HandleFunc("/orders", a.ListOrdersHandler).Methods("GET")
	api.HandleFunc("/orders/{id}/status", a.UpdateOrderStatusHandler).Methods("PUT")

	// Notifications
	api.HandleFunc("/notifications", a.ListNotificationsHandler).Methods("GET")
	api.HandleFunc("/notifications/unread-count", a.UnreadCountHandler).Methods("GET")
	api.HandleFunc("/notifications/mark-all-read", a.MarkAllReadHandler).Methods("POST")
	api.HandleFunc("/notifications/{id}", a.DeleteNotificationHandler).Methods("DELETE")

	// Admin back office
	api.HandleFunc("/admin/orders", a.AdminOrdersHandler).Methods("GET")
	api.HandleFunc("/admin/products", a.AdminProductsHandler).Methods("GET")
	api.HandleFunc("/admin/products", a.CreateProductHandler).Methods("POST")
	api.HandleFunc("/admin/products/{id}", a.UpdateProductHandler).Methods("PUT")
	api.HandleFunc("/admin/products/{id}", a.DeleteProductHandler).Methods("DELETE")
	api.HandleFunc("/admin/users", a.AdminUsersHandler).Methods("GET")

	// Health
	r.HandleFunc("/health", a.HealthHandler).Methods("GET")
}

// actor resolves the acting identity once per request and is passed
// explicitly into every service call. A userId header overrides the
// mirrored session identity.
func (a *App) actor(r *http.Request) models.Actor {
	if userID := r.Header.Get("userId"); userID != "" {
		return models.Actor{
			ID:       userID,
			Username: r.Header.Get("username"),
			Email:    r.Header.Get("email"),
			Role:     r.Header.Get("role"),
		}
	}
	return a.sessions.ReadActor(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps service failures onto the response. Local
// rejections are user-facing messages, not transport errors; backend
// failures surface as a transient message with the upstream status.
func writeServiceError(w http.ResponseWriter, err error) {
	var rejection *services.Rejection
	if errors.As(err, &rejection) {
		writeJSON(w, http.StatusOK, map[string]string{"message": rejection.Message})
		return
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// HealthHandler handles health check requests
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// GetSessionHandler handles GET /api/v1/session
func (a *App) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.sessions.ReadActor(r.Context()))
}

// PutSessionHandler handles POST /api/v1/session
func (a *App) PutSessionHandler(w http.ResponseWriter, r *http.Request) {
	var actor models.Actor
	if err := json.NewDecoder(r.Body).Decode(&actor); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := a.sessions.SaveActor(r.Context(), actor); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actor)
}

// LogoutHandler handles DELETE /api/v1/session
func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.ClearActor(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	a.dropForm(localcart.GuestScopeKey)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// GetCartHandler handles GET /api/v1/cart
func (a *App) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := a.cartService.Items(r.Context(), a.actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddToCartHandler handles POST /api/v1/cart/add
func (a *App) AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := a.cartService.AddItem(r.Context(), a.actor(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveFromCartHandler handles POST /api/v1/cart/remove
func (a *App) RemoveFromCartHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID int64 `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cart, err := a.cartService.RemoveItem(r.Context(), a.actor(r), req.ItemID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// GetWishlistHandler handles GET /api/v1/wishlist
func (a *App) GetWishlistHandler(w http.ResponseWriter, r *http.Request) {
	wishlist, err := a.wishlist.List(r.Context(), a.actor(r))
	if err != nil {
		var rejection *services.Rejection
		if errors.As(err, &rejection) {
			writeJSON(w, http.StatusOK, map[string]string{"message": rejection.Message})
			return
		}
		// Degraded read: empty list plus a banner message.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"wishlistItems": []models.WishlistEntry{},
			"totalItems":    0,
			"error":         "Failed to fetch wishlist",
		})
		return
	}
	writeJSON(w, http.StatusOK, wishlist)
}

// AddToWishlistHandler handles POST /api/v1/wishlist/add
func (a *App) AddToWishlistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.wishlist.Add(r.Context(), a.actor(r), req.ProductID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product added to wishlist"})
}

// RemoveFromWishlistHandler handles POST /api/v1/wishlist/remove
func (a *App) RemoveFromWishlistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.wishlist.Remove(r.Context(), a.actor(r), req.ProductID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed from wishlist"})
}

// CheckWishlistHandler handles GET /api/v1/wishlist/check/{productId}
func (a *App) CheckWishlistHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, err := strconv.ParseInt(vars["productId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	favorite := a.wishlist.Check(r.Context(), a.actor(r), productID)
	writeJSON(w, http.StatusOK, map[string]bool{"isInWishlist": favorite})
}

// WishlistCountHandler handles GET /api/v1/wishlist/count
func (a *App) WishlistCountHandler(w http.ResponseWriter, r *http.Request) {
	count := a.wishlist.Count(r.Context(), a.actor(r))
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// ListOrdersHandler handles GET /api/v1/orders
func (a *App) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderService.CustomerOrders(r.Context(), a.actor(r))
	if err != nil {
		// Read path degrades to empty data with a banner message.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"orders": []models.Order{},
			"error":  "Failed to load orders",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// UpdateOrderStatusHandler handles PUT /api/v1/orders/{id}/status
func (a *App) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.orderService.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ListNotificationsHandler handles GET /api/v1/notifications
func (a *App) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	notifications, err := a.notifications.List(r.Context(), a.actor(r))
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"notifications": []models.Notification{},
			"error":         "Failed to load notifications",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// UnreadCountHandler handles GET /api/v1/notifications/unread-count
func (a *App) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	count := a.notifications.UnreadCount(r.Context(), a.actor(r))
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// MarkAllReadHandler handles POST /api/v1/notifications/mark-all-read
func (a *App) MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.notifications.MarkAllRead(r.Context(), a.actor(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "marked"})
}

// DeleteNotificationHandler handles DELETE /api/v1/notifications/{id}
func (a *App) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := a.notifications.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

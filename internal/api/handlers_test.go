package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/kv"
	"github.com/Taboada40/PinoyHiratage/internal/localcart"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/services"
	"github.com/Taboada40/PinoyHiratage/internal/session"
	"github.com/Taboada40/PinoyHiratage/pkg/config"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router  *mux.Router
	storage *kv.MemoryStore
}

// newTestApp wires a full application against a fake backend handler.
func newTestApp(t *testing.T, backendHandler http.Handler) *testApp {
	t.Helper()

	if backendHandler == nil {
		backendHandler = http.NotFoundHandler()
	}
	server := httptest.NewServer(backendHandler)
	t.Cleanup(server.Close)

	nop := metrics.NewNop()
	storage := kv.NewMemoryStore()
	local := localcart.NewStore(storage)
	bc := backend.NewClient(server.URL, 2*time.Second, nop)

	wishlist := services.NewWishlistService(bc, nop)
	app := NewApp(
		&config.Config{AppPort: "0"},
		nop,
		session.NewStore(storage),
		services.NewCartService(bc, local, wishlist, nop),
		wishlist,
		services.NewOrderService(bc, local, nop),
		services.NewNotificationService(bc, nop),
		services.NewProductService(bc, nop),
		services.NewCustomerService(bc, nop),
	)

	router := mux.NewRouter()
	app.SetupRoutes(router)
	return &testApp{router: router, storage: storage}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthHandler(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestSessionLifecycle(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/session", map[string]string{
		"id": "7", "username": "maria", "email": "maria@example.com", "role": "CUSTOMER",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/session", nil, nil)
	var actor map[string]string
	decodeBody(t, rec, &actor)
	assert.Equal(t, "maria", actor["username"])

	rec = app.do(t, http.MethodDelete, "/api/v1/session", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/session", nil, nil)
	decodeBody(t, rec, &actor)
	assert.Empty(t, actor["id"], "logout clears the mirrored identity")
}

func TestUserIDHeaderOverridesSession(t *testing.T) {
	hit := ""
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = r.URL.Path
		json.NewEncoder(w).Encode([]interface{}{})
	}))

	rec := app.do(t, http.MethodGet, "/api/v1/cart", nil, map[string]string{"userId": "42"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/api/cart/customer/42/items", hit)
}

func TestGuestWishlistAddReturnsLoginMessage(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/wishlist/add", map[string]int{"productId": 3}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Please log in to add to wishlist", body["message"])
}

func TestGuestCheckoutFlow(t *testing.T) {
	app := newTestApp(t, nil)

	// Seed the guest cart through the public API.
	rec := app.do(t, http.MethodPost, "/api/v1/cart/add", map[string]interface{}{
		"productName": "Salakot", "quantity": 2, "unitPrice": 350,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Proceeding with a blank address is blocked with field errors.
	rec = app.do(t, http.MethodPost, "/api/v1/checkout/proceed", nil, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var blocked struct {
		FieldErrors map[string]string `json:"fieldErrors"`
	}
	decodeBody(t, rec, &blocked)
	assert.Equal(t, "Full name is required", blocked.FieldErrors["fullName"])

	// Fill the delivery form.
	for name, value := range map[string]string{
		"fullName":   "Maria Santos",
		"phone":      "09171234567",
		"street":     "123 Rizal St",
		"province":   "Metro Manila",
		"city":       "Quezon City",
		"postalCode": "1100",
	} {
		rec = app.do(t, http.MethodPost, "/api/v1/checkout/field", map[string]string{"name": name, "value": value}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = app.do(t, http.MethodPost, "/api/v1/checkout/proceed", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state checkoutState
	decodeBody(t, rec, &state)
	assert.Equal(t, "PAYMENT", string(state.Stage))
	assert.Equal(t, 700.0, state.Subtotal)

	// Discount applies to the running total.
	rec = app.do(t, http.MethodPost, "/api/v1/checkout/discount", map[string]string{"code": "save10"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &state)
	assert.InDelta(t, 70.0, state.DiscountAmt, 0.0001)
	assert.InDelta(t, 630.0, state.Total, 0.0001)

	rec = app.do(t, http.MethodPost, "/api/v1/checkout/payment", map[string]string{
		"method": "GCash", "gcashNumber": "09171234567", "gcashName": "Maria",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/checkout/confirm", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var confirmed map[string]interface{}
	decodeBody(t, rec, &confirmed)
	assert.Equal(t, "confirmed", confirmed["status"])
	assert.NotContains(t, confirmed, "order", "guest checkout produces no server order")

	// The guest cart was consumed and the wizard reset.
	rec = app.do(t, http.MethodGet, "/api/v1/cart", nil, nil)
	var cart struct {
		Items []interface{} `json:"items"`
	}
	decodeBody(t, rec, &cart)
	assert.Empty(t, cart.Items)

	rec = app.do(t, http.MethodGet, "/api/v1/checkout", nil, nil)
	decodeBody(t, rec, &state)
	assert.Equal(t, "DELIVERY_INFO", string(state.Stage))
	assert.Empty(t, state.Address.FullName)
}

func TestConcurrentCheckoutEditsSameScope(t *testing.T) {
	app := newTestApp(t, nil)

	// A non-empty cart so proceed attempts reach the wizard.
	rec := app.do(t, http.MethodPost, "/api/v1/cart/add", map[string]interface{}{
		"productName": "Salakot", "quantity": 1, "unitPrice": 350,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Rapid repeated edits and proceed attempts against one actor scope
	// must serialize on the wizard instead of racing on its state.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				field := app.do(t, http.MethodPost, "/api/v1/checkout/field", map[string]string{
					"name": "fullName", "value": fmt.Sprintf("Maria %d-%d", n, j),
				}, nil)
				assert.Equal(t, http.StatusOK, field.Code)

				proceed := app.do(t, http.MethodPost, "/api/v1/checkout/proceed", nil, nil)
				assert.Equal(t, http.StatusUnprocessableEntity, proceed.Code)
			}
		}(i)
	}
	wg.Wait()

	rec = app.do(t, http.MethodGet, "/api/v1/checkout", nil, nil)
	var state checkoutState
	decodeBody(t, rec, &state)
	assert.Equal(t, "DELIVERY_INFO", string(state.Stage))
	assert.NotEmpty(t, state.Address.FullName)
}

func TestProceedWithEmptyCart(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/checkout/proceed", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Your cart is empty", body["message"])
}

func TestApplyInvalidDiscountCode(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/checkout/discount", map[string]string{"code": "SAVE20"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, false, body["applied"])
	assert.Equal(t, "Invalid discount code", body["message"])
}

func TestSetPaymentRejectsIncompleteDetails(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/checkout/payment", map[string]string{"method": "GCash"}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Complete delivery information first.", body["message"])
}

func TestLocationsHandler(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/api/v1/checkout/locations", nil, nil)
	var provinces struct {
		Provinces []string `json:"provinces"`
	}
	decodeBody(t, rec, &provinces)
	assert.Contains(t, provinces.Provinces, "Metro Manila")

	rec = app.do(t, http.MethodGet, "/api/v1/checkout/locations?province=Metro+Manila", nil, nil)
	var cities struct {
		Cities []string `json:"cities"`
	}
	decodeBody(t, rec, &cities)
	assert.Contains(t, cities.Cities, "Quezon City")
}

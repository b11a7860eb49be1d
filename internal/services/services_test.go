package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/kv"
	"github.com/Taboada40/PinoyHiratage/internal/localcart"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/models"
)

var (
	guest    = models.Actor{}
	customer = models.Actor{ID: "7", Username: "maria", Role: models.RoleCustomer}
	admin    = models.Actor{ID: "1", Username: "admin", Role: models.RoleAdmin}
)

// newBackend spins up a fake backend API and points a client at it.
func newBackend(t *testing.T, handler http.Handler) *backend.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return backend.NewClient(server.URL, 2*time.Second, metrics.NewNop())
}

// downBackend returns a client pointed at an address nobody listens on.
func downBackend(t *testing.T) *backend.Client {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	return backend.NewClient(server.URL, 500*time.Millisecond, metrics.NewNop())
}

func newLocalStore() *localcart.Store {
	return localcart.NewStore(kv.NewMemoryStore())
}

func newCartService(bc *backend.Client, local *localcart.Store) *CartService {
	nop := metrics.NewNop()
	return NewCartService(bc, local, NewWishlistService(bc, nop), nop)
}

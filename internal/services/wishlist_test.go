package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistGuardRejectsWithoutNetwork(t *testing.T) {
	hits := 0
	bc := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	svc := NewWishlistService(bc, metrics.NewNop())
	ctx := context.Background()

	err := svc.Add(ctx, guest, 3)
	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "Please log in to add to wishlist", rejection.Message)

	err = svc.Add(ctx, admin, 3)
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "Admins cannot add to wishlist", rejection.Message)

	err = svc.Remove(ctx, guest, 3)
	require.ErrorAs(t, err, &rejection)

	_, err = svc.List(ctx, admin)
	require.ErrorAs(t, err, &rejection)

	assert.False(t, svc.Check(ctx, guest, 3))
	assert.Zero(t, svc.Count(ctx, admin))

	assert.Equal(t, 0, hits, "guards must fire before any backend call")
}

func TestWishlistAddSendsUserHeader(t *testing.T) {
	bc := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/wishlist/add", r.URL.Path)
		assert.Equal(t, "7", r.Header.Get("userId"))

		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(3), body["productId"])

		json.NewEncoder(w).Encode(map[string]interface{}{"message": "added", "wishlistCount": 1})
	}))
	svc := NewWishlistService(bc, metrics.NewNop())

	require.NoError(t, svc.Add(context.Background(), customer, 3))
}

func TestWishlistAddSurfacesBackendError(t *testing.T) {
	bc := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "already in wishlist", http.StatusConflict)
	}))
	svc := NewWishlistService(bc, metrics.NewNop())

	err := svc.Add(context.Background(), customer, 3)
	require.Error(t, err)
	var rejection *Rejection
	assert.False(t, errors.As(err, &rejection), "transport errors are not user-facing rejections")
}

func TestWishlistCheckDefaultsFalseOnFailure(t *testing.T) {
	svc := NewWishlistService(downBackend(t), metrics.NewNop())

	assert.False(t, svc.Check(context.Background(), customer, 3))
}

func TestWishlistCheckReadsFlag(t *testing.T) {
	bc := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/wishlist/check/3", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]bool{"isInWishlist": true})
	}))
	svc := NewWishlistService(bc, metrics.NewNop())

	assert.True(t, svc.Check(context.Background(), customer, 3))
}

func TestWishlistListDegradesToEmpty(t *testing.T) {
	svc := NewWishlistService(downBackend(t), metrics.NewNop())

	wishlist, err := svc.List(context.Background(), customer)
	require.Error(t, err)
	require.NotNil(t, wishlist)
	assert.Empty(t, wishlist.Items)
}

func TestWishlistListNormalizesNilItems(t *testing.T) {
	bc := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"totalItems": 0})
	}))
	svc := NewWishlistService(bc, metrics.NewNop())

	wishlist, err := svc.List(context.Background(), customer)
	require.NoError(t, err)
	assert.NotNil(t, wishlist.Items)
	assert.Empty(t, wishlist.Items)
}

func TestWishlistCountZeroOnFailure(t *testing.T) {
	svc := NewWishlistService(downBackend(t), metrics.NewNop())

	assert.Zero(t, svc.Count(context.Background(), customer))
}

func TestWishlistCount(t *testing.T) {
	bc := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"count": 4})
	}))
	svc := NewWishlistService(bc, metrics.NewNop())

	assert.Equal(t, 4, svc.Count(context.Background(), customer))
}

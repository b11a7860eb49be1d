package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Taboada40/PinoyHiratage/internal/api"
	"github.com/Taboada40/PinoyHiratage/internal/backend"
	"github.com/Taboada40/PinoyHiratage/internal/kv"
	"github.com/Taboada40/PinoyHiratage/internal/localcart"
	"github.com/Taboada40/PinoyHiratage/internal/metrics"
	"github.com/Taboada40/PinoyHiratage/internal/services"
	"github.com/Taboada40/PinoyHiratage/internal/session"
	"github.com/Taboada40/PinoyHiratage/pkg/config"
	"github.com/gorilla/mux"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry metrics
	ctx := context.Background()
	appMetrics, meterProvider, err := metrics.InitMetrics(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down meter provider: %v", err)
		}
	}()

	// Initialize client storage
	var storage kv.Store
	if cfg.RedisURL != "" {
		redisStore, err := kv.NewRedisStore(cfg.RedisURL, cfg.RedisNamespace)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		storage = redisStore
		log.Printf("Client storage: redis (%s)", cfg.RedisNamespace)
	} else {
		storage = kv.NewMemoryStore()
		log.Println("Client storage: in-memory")
	}

	sessions := session.NewStore(storage)
	localCarts := localcart.NewStore(storage)

	// Initialize backend client
	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, appMetrics)

	// Initialize services
	wishlistService := services.NewWishlistService(backendClient, appMetrics)
	cartService := services.NewCartService(backendClient, localCarts, wishlistService, appMetrics)
	orderService := services.NewOrderService(backendClient, localCarts, appMetrics)
	notificationService := services.NewNotificationService(backendClient, appMetrics)
	productService := services.NewProductService(backendClient, appMetrics)
	customerService := services.NewCustomerService(backendClient, appMetrics)

	// Initialize app
	app := api.NewApp(cfg, appMetrics, sessions,
		cartService, wishlistService, orderService,
		notificationService, productService, customerService)

	// Setup router
	router := mux.NewRouter()
	app.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.GetAppPortInt()),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Storefront gateway starting on port %s", cfg.AppPort)
		log.Printf("Backend API: %s", cfg.BackendBaseURL)
		log.Printf("OTLP endpoint: %s", cfg.OTELExporterOTLPEndpoint)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Taboada40/PinoyHiratage/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// AppMetrics holds all application metrics
type AppMetrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Backend API Metrics
	BackendRequestsTotal   metric.Int64Counter
	BackendRequestDuration metric.Float64Histogram

	// Business Metrics
	CartAddsTotal      metric.Int64Counter
	CartFallbackWrites metric.Int64Counter
	CartItemsCount     metric.Int64Gauge
	WishlistMutations  metric.Int64Counter
	WishlistRejections metric.Int64Counter
	OrdersPlaced       metric.Int64Counter
	RevenueTotal       metric.Float64Counter

	// Application Metrics
	ActiveUsersCount metric.Int64Gauge

	// Service name for adding to all metrics
	serviceName string
}

// InitMetrics initializes OpenTelemetry metrics
func InitMetrics(ctx context.Context, cfg *config.Config) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	// Merge env-provided resource attributes with our explicit service
	// information; explicit attributes take precedence.
	envRes, err := resource.New(ctx, resource.WithFromEnv())
	if err != nil {
		envRes = resource.Empty()
	}

	explicitRes, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTELServiceName),
			semconv.ServiceVersion(cfg.OTELServiceVersion),
			attribute.String("deployment.environment", cfg.OTELDeploymentEnvironment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create explicit resource: %w", err)
	}

	res, err := resource.Merge(envRes, explicitRes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to merge resources: %w", err)
	}

	// OTLP HTTP exporter.
	// - WithEndpoint expects host:port (without http:// or https://)
	// - WithInsecure() is for http:// endpoints (local development)
	// - WithHeaders carries authentication (e.g. signoz-ingestion-key)
	exporterOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTELExporterOTLPEndpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if cfg.OTELExporterOTLPHeaders != "" {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithHeaders(parseHeaders(cfg.OTELExporterOTLPHeaders)))
	}
	if cfg.OTELExporterOTLPInsecure {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// Export every 10 seconds
	reader := sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(10*time.Second),
	)

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(cfg.OTELServiceName)

	// SigNoz default histogram buckets in milliseconds, expanded to 60s
	buckets := []float64{2, 4, 6, 8, 10, 50, 100, 200, 400, 800, 1000, 1400, 2000, 5000, 10000, 15000, 20000, 30000, 45000, 60000}

	// Initialize HTTP metrics
	httpRequestsTotal, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}

	httpRequestsErrors, err := meter.Int64Counter(
		"http.server.request.error.count",
		metric.WithDescription("Total number of HTTP error requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create http errors counter: %w", err)
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}

	// Initialize backend API metrics
	backendRequestsTotal, err := meter.Int64Counter(
		"backend.client.request.count",
		metric.WithDescription("Total number of backend API requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create backend requests counter: %w", err)
	}

	backendRequestDuration, err := meter.Float64Histogram(
		"backend.client.request.duration",
		metric.WithDescription("Backend API request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create backend duration histogram: %w", err)
	}

	// Initialize business metrics
	cartAddsTotal, err := meter.Int64Counter(
		"cart_adds_total",
		metric.WithDescription("Total number of cart additions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cart adds counter: %w", err)
	}

	cartFallbackWrites, err := meter.Int64Counter(
		"cart_fallback_writes_total",
		metric.WithDescription("Cart additions served by the local fallback store"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cart fallback counter: %w", err)
	}

	cartItemsCount, err := meter.Int64Gauge(
		"cart_items_count",
		metric.WithDescription("Current number of items in user carts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cart items gauge: %w", err)
	}

	wishlistMutations, err := meter.Int64Counter(
		"wishlist_mutations_total",
		metric.WithDescription("Total number of wishlist add/remove operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create wishlist mutations counter: %w", err)
	}

	wishlistRejections, err := meter.Int64Counter(
		"wishlist_rejections_total",
		metric.WithDescription("Wishlist operations rejected before any network call"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create wishlist rejections counter: %w", err)
	}

	ordersPlaced, err := meter.Int64Counter(
		"orders_placed_total",
		metric.WithDescription("Total number of orders placed at checkout"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create orders counter: %w", err)
	}

	revenueTotal, err := meter.Float64Counter(
		"revenue_total",
		metric.WithDescription("Total revenue generated"),
		metric.WithUnit("PHP"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}

	// Initialize application metrics
	activeUsersCount, err := meter.Int64Gauge(
		"active_users_count",
		metric.WithDescription("Currently active users"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create active users gauge: %w", err)
	}

	return &AppMetrics{
		HTTPRequestsTotal:      httpRequestsTotal,
		HTTPRequestsErrors:     httpRequestsErrors,
		HTTPRequestDuration:    httpRequestDuration,
		BackendRequestsTotal:   backendRequestsTotal,
		BackendRequestDuration: backendRequestDuration,
		CartAddsTotal:          cartAddsTotal,
		CartFallbackWrites:     cartFallbackWrites,
		CartItemsCount:         cartItemsCount,
		WishlistMutations:      wishlistMutations,
		WishlistRejections:     wishlistRejections,
		OrdersPlaced:           ordersPlaced,
		RevenueTotal:           revenueTotal,
		ActiveUsersCount:       activeUsersCount,
		serviceName:            cfg.OTELServiceName,
	}, meterProvider, nil
}

// NewNop returns metrics backed by a provider that never exports. Tests use
// it so services can record freely without an exporter.
func NewNop() *AppMetrics {
	meter := sdkmetric.NewMeterProvider().Meter("nop")

	m := &AppMetrics{serviceName: "nop"}
	m.HTTPRequestsTotal, _ = meter.Int64Counter("http.server.request.count")
	m.HTTPRequestsErrors, _ = meter.Int64Counter("http.server.request.error.count")
	m.HTTPRequestDuration, _ = meter.Float64Histogram("http.server.request.duration")
	m.BackendRequestsTotal, _ = meter.Int64Counter("backend.client.request.count")
	m.BackendRequestDuration, _ = meter.Float64Histogram("backend.client.request.duration")
	m.CartAddsTotal, _ = meter.Int64Counter("cart_adds_total")
	m.CartFallbackWrites, _ = meter.Int64Counter("cart_fallback_writes_total")
	m.CartItemsCount, _ = meter.Int64Gauge("cart_items_count")
	m.WishlistMutations, _ = meter.Int64Counter("wishlist_mutations_total")
	m.WishlistRejections, _ = meter.Int64Counter("wishlist_rejections_total")
	m.OrdersPlaced, _ = meter.Int64Counter("orders_placed_total")
	m.RevenueTotal, _ = meter.Float64Counter("revenue_total")
	m.ActiveUsersCount, _ = meter.Int64Gauge("active_users_count")
	return m
}

// WithServiceName adds service.name to attributes
func (m *AppMetrics) WithServiceName(attrs []attribute.KeyValue) []attribute.KeyValue {
	return append(attrs, attribute.String("service.name", m.serviceName))
}

// RecordBackendCall records backend API request metrics
func (m *AppMetrics) RecordBackendCall(ctx context.Context, method, path string, start time.Time, success bool) {
	duration := time.Since(start).Milliseconds()

	status := "success"
	if !success {
		status = "error"
	}

	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("backend.path", path),
		attribute.String("status", status),
	}

	m.BackendRequestsTotal.Add(ctx, 1, metric.WithAttributes(m.WithServiceName(attrs)...))
	m.BackendRequestDuration.Record(ctx, float64(duration), metric.WithAttributes(m.WithServiceName(attrs)...))
}

// parseHeaders parses header string in format "key1=value1,key2=value2"
// and returns a map of headers
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	if headerStr == "" {
		return headers
	}

	pairs := strings.Split(headerStr, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headers
}

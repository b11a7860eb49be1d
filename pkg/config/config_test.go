package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetAppPortInt(t *testing.T) {
	cfg := &Config{AppPort: "8081"}
	assert.Equal(t, 8081, cfg.GetAppPortInt())

	// Unparseable ports fall back to the default.
	cfg = &Config{AppPort: "not-a-port"}
	assert.Equal(t, 3000, cfg.GetAppPortInt())
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "BACKEND_BASE_URL", "BACKEND_TIMEOUT",
		"REDIS_URL", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "http://localhost:8080", cfg.BackendBaseURL)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "storefront-gateway", cfg.OTELServiceName)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "false")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 9090, cfg.GetAppPortInt())
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.False(t, cfg.OTELExporterOTLPInsecure)
}

func TestGetEnvDurationIgnoresGarbage(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
}

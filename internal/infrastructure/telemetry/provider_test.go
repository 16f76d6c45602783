package telemetry_test

import (
	"context"
	"os"
	"testing"

	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func disabledConfig() telemetry.Config {
	return telemetry.Config{
		ServiceName:       "pos-test",
		ServiceVersion:    "test",
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
	}
}

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	p, err := telemetry.Setup(ctx, disabledConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.TracingEnabled())
	assert.False(t, p.MetricsEnabled())
	assert.NoError(t, p.ForceFlush(ctx))
	assert.NoError(t, p.Shutdown(ctx))
}

func TestSetup_DisabledFallsBackToGlobals(t *testing.T) {
	ctx := context.Background()
	p, err := telemetry.Setup(ctx, disabledConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, span := p.Tracer("noop").Start(ctx, "span")
	span.End()

	counter, err := telemetry.NewCounter(p.Meter("noop"), "pos_test_total", "test", "{n}")
	require.NoError(t, err)
	counter.Inc(ctx)
}

func TestSetup_ShutdownWithCancelledContext(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), disabledConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, p.Shutdown(ctx))
}

func TestSetup_Enabled(t *testing.T) {
	endpoint := os.Getenv("POS_TEST_OTLP_ENDPOINT")
	if testing.Short() || endpoint == "" {
		t.Skip("POS_TEST_OTLP_ENDPOINT not set")
	}

	ctx := context.Background()
	cfg := disabledConfig()
	cfg.CollectorEndpoint = endpoint
	cfg.TracingEnabled = true
	cfg.MetricsEnabled = true
	cfg.Insecure = true

	p, err := telemetry.Setup(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, p.TracingEnabled())
	assert.True(t, p.MetricsEnabled())

	_, span := p.Tracer("test").Start(ctx, "sale")
	span.End()

	assert.NoError(t, p.ForceFlush(ctx))
	assert.NoError(t, p.Shutdown(ctx))
}

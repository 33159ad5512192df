package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/amp-labs/txprocess/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func withEnv(vars map[string]string) context.Context {
	ctx := envutil.WithEnvOverride(context.Background(), "OTEL_ENABLED", "false")
	ctx = envutil.WithEnvOverride(ctx, "KUBERNETES_SERVICE_HOST", "")

	for key, value := range vars {
		ctx = envutil.WithEnvOverride(ctx, key, value)
	}

	return ctx
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		vars             map[string]string
		expectedEndpoint string
	}{
		{
			name:             "kubernetes detected",
			vars:             map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"},
			expectedEndpoint: clusterCollectorEndpoint,
		},
		{
			name:             "outside kubernetes",
			expectedEndpoint: "",
		},
		{
			name: "custom endpoint overrides cluster default",
			vars: map[string]string{
				"KUBERNETES_SERVICE_HOST":            "10.0.0.1",
				"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": "http://custom-collector:4318",
			},
			expectedEndpoint: "http://custom-collector:4318",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			config, err := LoadConfigFromEnv(withEnv(test.vars), "txprocess", "dev")
			require.NoError(t, err)
			assert.Equal(t, test.expectedEndpoint, config.Endpoint)
		})
	}
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFromEnv(withEnv(map[string]string{
		"OTEL_ENABLED":                      "true",
		"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT": "2s",
	}), "txprocess", "dev")
	require.NoError(t, err)

	assert.Equal(t, &Config{
		ServiceName:    "txprocess",
		ServiceVersion: defaultServiceVersion,
		Environment:    "dev",
		Enabled:        true,
		Timeout:        2 * time.Second,
	}, config)

	_, err = LoadConfigFromEnv(withEnv(map[string]string{"OTEL_ENABLED": "maybe"}), "txprocess", "dev")
	require.ErrorIs(t, err, envutil.ErrBadEnvVar)

	_, err = LoadConfigFromEnv(withEnv(map[string]string{"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT": "soon"}), "txprocess", "dev")
	require.ErrorIs(t, err, envutil.ErrBadEnvVar)
}

func TestInitializeDisabled(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFromEnv(withEnv(nil), "txprocess", "dev")
	require.NoError(t, err)
	assert.False(t, config.Enabled)

	require.NoError(t, Initialize(context.Background(), config))
	require.NoError(t, Initialize(context.Background(), &Config{Enabled: true}))
	require.NoError(t, Initialize(context.Background(), nil))
}

//nolint:paralleltest // Test modifies the global OTEL tracer provider
func TestInitializeInstallsProvider(t *testing.T) {
	oldProvider := otel.GetTracerProvider()
	oldPropagator := otel.GetTextMapPropagator()

	t.Cleanup(func() {
		otel.SetTracerProvider(oldProvider)
		otel.SetTextMapPropagator(oldPropagator)
	})

	ctx := withEnv(map[string]string{
		"OTEL_ENABLED":                       "true",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": "http://127.0.0.1:4318",
	})

	config, err := LoadConfigFromEnv(ctx, "txprocess", "dev")
	require.NoError(t, err)
	require.NoError(t, Initialize(ctx, config))

	assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	require.NoError(t, Shutdown(shutdownCtx))
	require.NoError(t, Shutdown(shutdownCtx))
}

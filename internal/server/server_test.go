package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/voicecal/internal/instrumentation"
)

func TestServerContextShutdownIsIdempotent(t *testing.T) {
	sc, err := NewServerContext(context.Background(), time.UTC)
	require.NoError(t, err)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())

	select {
	case <-sc.Context().Done():
	default:
		t.Fatal("context not cancelled after shutdown")
	}
}

func TestServerContextMetricsNilWithoutInstrumentation(t *testing.T) {
	sc, err := NewServerContext(context.Background(), time.UTC)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())
}

func TestServerContextInstrumentationWiring(t *testing.T) {
	sc, err := NewServerContext(context.Background(), time.UTC)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false})
	require.NoError(t, err)

	sc.SetInstrumentation(provider, instrumentation.NewAuditLogger(nil))
	assert.NotNil(t, sc.Metrics())
	assert.NotNil(t, sc.AuditLogger())
}

func TestNewMetricsServerRequiresProvider(t *testing.T) {
	_, err := NewMetricsServer(MetricsServerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instrumentation provider is required")
}

func TestNewMetricsServerRequiresEnabledProvider(t *testing.T) {
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false})
	require.NoError(t, err)

	_, err = NewMetricsServer(MetricsServerConfig{InstrumentationProvider: provider})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
}

func TestNewMetricsServerDefaultAddr(t *testing.T) {
	// An enabled provider needs an exporter; prometheus works without
	// external endpoints.
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		Enabled:         true,
		ServiceName:     "voicecal",
		ServiceVersion:  "test",
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	srv, err := NewMetricsServer(MetricsServerConfig{InstrumentationProvider: provider})
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsAddr, srv.Addr())
}

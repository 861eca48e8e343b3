package instrumentation

import (
	"os"
	"strconv"
)

// Exporter names accepted by the configuration.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: voicecal).
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: false for
	// the interactive CLI; set INSTRUMENTATION_ENABLED=true to enable).
	Enabled bool

	// MetricsExporter specifies the metrics exporter type.
	// Options: "prometheus", "otlp", "stdout" (default: "stdout").
	MetricsExporter string

	// TracingExporter specifies the tracing exporter type.
	// Options: "otlp", "stdout", "none" (default: "none").
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint, without protocol prefix.
	OTLPEndpoint string

	// OTLPInsecure controls whether to use unencrypted HTTP for OTLP
	// export. Only for local development.
	OTLPInsecure bool

	// MetricsAddr is the listen address for the Prometheus scrape endpoint
	// when the prometheus exporter is selected (default ":9090").
	MetricsAddr string
}

// LoadConfigFromEnv loads instrumentation configuration from environment
// variables, applying defaults for unset values.
func LoadConfigFromEnv(version string) Config {
	cfg := Config{
		ServiceName:     "voicecal",
		ServiceVersion:  version,
		Enabled:         false,
		MetricsExporter: ExporterStdout,
		TracingExporter: ExporterNone,
		MetricsAddr:     ":9090",
	}

	if v := os.Getenv("INSTRUMENTATION_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = enabled
		}
	}
	if v := os.Getenv("METRICS_EXPORTER"); v != "" {
		cfg.MetricsExporter = v
	}
	if v := os.Getenv("TRACING_EXPORTER"); v != "" {
		cfg.TracingExporter = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		if insecure, err := strconv.ParseBool(v); err == nil {
			cfg.OTLPInsecure = insecure
		}
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	return cfg
}

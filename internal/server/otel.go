package server

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// instrument wraps the handler with OpenTelemetry HTTP instrumentation.
func instrument(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(
			next,
			serviceName,
			otelhttp.WithTracerProvider(otel.GetTracerProvider()),
			otelhttp.WithMeterProvider(otel.GetMeterProvider()),
			otelhttp.WithFilter(shouldTrace),
			otelhttp.WithSpanNameFormatter(spanName),
		)
	}
}

// shouldTrace skips health and metrics scrapes.
func shouldTrace(r *http.Request) bool {
	switch r.URL.Path {
	case "/health", "/metrics":
		return false
	}
	return true
}

func spanName(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

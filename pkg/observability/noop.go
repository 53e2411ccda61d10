package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
func (noopLogger) Fatal(string, map[string]interface{}) {}

func (l noopLogger) WithPrefix(string) Logger           { return l }
func (l noopLogger) With(map[string]interface{}) Logger { return l }

// NewNoopMetricsClient returns a metrics client that discards everything.
func NewNoopMetricsClient() MetricsClient {
	return noopMetricsClient{}
}

type noopMetricsClient struct{}

func (noopMetricsClient) RecordCounter(string, float64, map[string]string)     {}
func (noopMetricsClient) RecordGauge(string, float64, map[string]string)       {}
func (noopMetricsClient) RecordHistogram(string, float64, map[string]string)   {}
func (noopMetricsClient) RecordTimer(string, time.Duration, map[string]string) {}
func (noopMetricsClient) Close() error                                         { return nil }

// NoopSpan is a Span that does nothing.
type NoopSpan struct{}

func (NoopSpan) End()                             {}
func (NoopSpan) SetAttribute(string, interface{}) {}
func (NoopSpan) RecordError(error)                {}
func (NoopSpan) SetStatus(codes.Code, string)     {}

// NoopStartSpan is a StartSpanFunc that produces NoopSpans.
func NoopStartSpan(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, Span) {
	return ctx, NoopSpan{}
}

func stringify(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

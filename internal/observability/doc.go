// Package observability provides logging, metrics and tracing for action
// chain runs.
//
//  1. Metrics - Prometheus counters and histograms per action and scope
//  2. Logging - slog-based structured logs with secret redaction and run
//     correlation taken from the context
//  3. Tracing - OpenTelemetry spans per chain run and per action
//
// # Usage
//
//	logger := observability.NewLogger(observability.LogConfig{Level: "debug", Format: "text"})
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	tracer, shutdown := observability.NewTracer(observability.TraceConfig{ServiceName: "embedinfo"})
//	defer shutdown(ctx)
//
//	ctx = observability.WithRunID(ctx, runID)
//	ctx, span := tracer.TraceAction(ctx, "Store Embed Info", 0)
//	defer span.End()
package observability

// Package observability wires OpenTelemetry tracing and metrics into API
// calls.
//
// InitTracer and InitMeter install OTLP/HTTP exporters as the global
// providers. TracingObserver and MetricsObserver attach to an API with
// httpapi.WithObserver and record one client span and one set of
// measurements per dispatch:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultConfig("orders"))
//	defer tp.Shutdown(ctx)
//
//	api, err := httpapi.New(cfg,
//	    httpapi.WithObserver(observability.TracingObserver(nil, nil)),
//	)
//
// When spans come from elsewhere (an incoming server request, say),
// PropagationInterceptor copies the caller's trace context into outgoing
// headers without starting a client span.
package observability

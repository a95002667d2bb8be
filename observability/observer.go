package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/retrokit/errors"
	"github.com/kbukum/retrokit/httpapi"
	"github.com/kbukum/retrokit/interceptor"
)

// Span attribute keys.
const (
	AttrHTTPMethod = "http.request.method"
	AttrHTTPStatus = "http.response.status_code"
	AttrURLFull    = "url.full"
	AttrServerAddr = "server.address"
	AttrErrorCode  = "retrokit.error.code"
)

func propagator(p propagation.TextMapPropagator) propagation.TextMapPropagator {
	if p == nil {
		return otel.GetTextMapPropagator()
	}
	return p
}

// TracingObserver starts a client span for each dispatch and injects its
// context into the request headers. Nil arguments use the globals.
func TracingObserver(tp trace.TracerProvider, prop propagation.TextMapPropagator) httpapi.Observer {
	return httpapi.ObserverFunc(func(ctx context.Context, req *http.Request) (context.Context, httpapi.Finish) {
		tracer := Tracer(tp)
		ctx, span := tracer.Start(ctx, "HTTP "+req.Method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String(AttrHTTPMethod, req.Method),
				attribute.String(AttrURLFull, req.URL.Redacted()),
				attribute.String(AttrServerAddr, req.URL.Host),
			),
		)
		propagator(prop).Inject(ctx, propagation.HeaderCarrier(req.Header))

		return ctx, func(resp *httpapi.Response, err error) {
			defer span.End()
			if err != nil {
				span.RecordError(err)
				span.SetAttributes(attribute.String(AttrErrorCode, string(errors.CodeOf(err))))
				span.SetStatus(codes.Error, err.Error())
				return
			}
			span.SetAttributes(attribute.Int(AttrHTTPStatus, resp.StatusCode))
			if resp.StatusCode >= 500 {
				span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
			}
		}
	})
}

// MetricsObserver records m for each dispatch of the named API.
func MetricsObserver(m *Metrics, api string) httpapi.Observer {
	return httpapi.ObserverFunc(func(ctx context.Context, req *http.Request) (context.Context, httpapi.Finish) {
		start := time.Now()
		m.RecordStart(ctx, api)
		return ctx, func(resp *httpapi.Response, err error) {
			var status string
			if err != nil {
				status = string(errors.CodeOf(err))
				m.RecordError(ctx, api, status)
			} else {
				status = strconv.Itoa(resp.StatusCode)
			}
			m.RecordEnd(ctx, api, req.Method, status, time.Since(start))
		}
	})
}

// PropagationInterceptor injects the trace context carried by each request's
// context into its headers. A nil prop uses the global propagator.
func PropagationInterceptor(prop propagation.TextMapPropagator) interceptor.Interceptor[*http.Request] {
	return interceptor.NewNamedFunc("trace-propagation", func(req *http.Request) error {
		propagator(prop).Inject(req.Context(), propagation.HeaderCarrier(req.Header))
		return nil
	})
}

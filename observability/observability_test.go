package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/retrokit/httpapi"
	"github.com/kbukum/retrokit/logger"
	"github.com/kbukum/retrokit/transport"
)

var traceContext = propagation.TraceContext{}

func newAPI(t *testing.T, tr transport.Transport, opts ...httpapi.Option) *httpapi.API {
	t.Helper()
	opts = append([]httpapi.Option{httpapi.WithLogger(logger.Nop()), httpapi.WithTransport(tr)}, opts...)
	api, err := httpapi.New(httpapi.Config{Name: "catalog", BaseURL: "http://catalog.internal"}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return api
}

func okTransport(status int, got **http.Request) transport.Transport {
	return transport.Func(func(_ context.Context, req *http.Request) (*http.Response, error) {
		if got != nil {
			*got = req
		}
		return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}, nil
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("orders")
	if cfg.ServiceName != "orders" || cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || !cfg.Insecure {
		t.Errorf("config = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	bad := Config{ServiceName: "", Endpoint: "no-port", SampleRate: 2}
	if err := bad.Validate(); err == nil {
		t.Error("expected validation errors")
	}
}

func TestTracingObserver(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var got *http.Request
	api := newAPI(t, okTransport(http.StatusOK, &got), httpapi.WithObserver(TracingObserver(tp, traceContext)))

	if _, err := api.Do(context.Background(), http.MethodGet, "/products/1", httpapi.Options{}, "", nil); err != nil {
		t.Fatal(err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "HTTP GET" {
		t.Errorf("span name = %q", span.Name())
	}
	attrs := attribute.NewSet(span.Attributes()...)
	if v, _ := attrs.Value(AttrHTTPStatus); v.AsInt64() != http.StatusOK {
		t.Errorf("status attribute = %v", v)
	}
	if v, _ := attrs.Value(AttrServerAddr); v.AsString() != "catalog.internal" {
		t.Errorf("server.address = %v", v)
	}

	traceparent := got.Header.Get("traceparent")
	if !strings.Contains(traceparent, span.SpanContext().TraceID().String()) {
		t.Errorf("traceparent = %q, want trace id %s", traceparent, span.SpanContext().TraceID())
	}
}

func TestTracingObserver_Error(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	failing := transport.Func(func(context.Context, *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})
	api := newAPI(t, failing, httpapi.WithObserver(TracingObserver(tp, traceContext)))
	if _, err := api.Do(context.Background(), http.MethodPost, "/orders", httpapi.Options{}, "", nil); err == nil {
		t.Fatal("expected error")
	}

	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Status().Code != codes.Error {
		t.Fatalf("spans = %v", spans)
	}
	attrs := attribute.NewSet(spans[0].Attributes()...)
	if v, _ := attrs.Value(AttrErrorCode); v.AsString() != "TRANSPORT_ERROR" {
		t.Errorf("error code attribute = %v", v)
	}
}

func TestPropagationInterceptor(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	ctx, parent := tp.Tracer("server").Start(context.Background(), "incoming")
	defer parent.End()

	var got *http.Request
	api := newAPI(t, okTransport(http.StatusOK, &got), httpapi.WithInterceptor(PropagationInterceptor(traceContext)))
	if _, err := api.Do(ctx, http.MethodGet, "/", httpapi.Options{}, "", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.Header.Get("traceparent"), parent.SpanContext().TraceID().String()) {
		t.Errorf("traceparent = %q", got.Header.Get("traceparent"))
	}
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestMetricsObserver(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(Meter(mp))
	if err != nil {
		t.Fatal(err)
	}

	api := newAPI(t, okTransport(http.StatusNotFound, nil), httpapi.WithObserver(MetricsObserver(m, "catalog")))
	for i := 0; i < 3; i++ {
		if _, err := api.Do(context.Background(), http.MethodGet, "/x", httpapi.Options{}, "", nil); err != nil {
			t.Fatal(err)
		}
	}
	api.SetTimeout(time.Millisecond)
	api.SetTransport(transport.Func(func(ctx context.Context, _ *http.Request) (*http.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	_, _ = api.Do(context.Background(), http.MethodGet, "/x", httpapi.Options{}, "", nil)

	metrics := collect(t, reader)
	total, ok := metrics[MetricRequestTotal].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("missing %s", MetricRequestTotal)
	}
	counts := map[string]int64{}
	for _, dp := range total.DataPoints {
		v, _ := dp.Attributes.Value("status")
		counts[v.AsString()] += dp.Value
	}
	if counts["404"] != 3 || counts["TIMEOUT"] != 1 {
		t.Errorf("request counts = %v", counts)
	}

	errs, ok := metrics[MetricErrorTotal].Data.(metricdata.Sum[int64])
	if !ok || len(errs.DataPoints) != 1 || errs.DataPoints[0].Value != 1 {
		t.Errorf("error counter = %+v", metrics[MetricErrorTotal].Data)
	}

	active, ok := metrics[MetricRequestActive].Data.(metricdata.Sum[int64])
	if !ok || len(active.DataPoints) != 1 || active.DataPoints[0].Value != 0 {
		t.Errorf("active gauge = %+v", metrics[MetricRequestActive].Data)
	}

	hist, ok := metrics[MetricRequestDuration].Data.(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 4 {
		t.Errorf("duration histogram = %+v", metrics[MetricRequestDuration].Data)
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	m.RecordStart(ctx, "api")
	m.RecordEnd(ctx, "api", "GET", "200", 10*time.Millisecond)
	m.RecordError(ctx, "api", "TIMEOUT")
}

func TestInitProviders(t *testing.T) {
	cfg := DefaultConfig("retrokit-test")
	cfg.SampleRate = 0.5

	tp, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitMeter() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
	_ = mp.Shutdown(ctx)

	if _, err := InitTracer(context.Background(), Config{}); err == nil {
		t.Error("missing service name should fail validation")
	}
}

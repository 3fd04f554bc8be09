package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type stubService struct{}

func (stubService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.OrderProfile, error) {
	return &domain.OrderProfile{ID: "order-1"}, nil
}

func (stubService) ListOrders(ctx context.Context) ([]domain.OrderProfile, error) {
	return nil, nil
}

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return metrics, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatal("Expected Sum[int64] data type")
				}
				return sum
			}
		}
	}
	t.Fatalf("%s metric not found", name)
	return metricdata.Sum[int64]{}
}

func TestInitializeMetrics(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	if metrics.requestDuration == nil {
		t.Error("requestDuration is nil")
	}
	if metrics.requestsTotal == nil {
		t.Error("requestsTotal is nil")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordRequest(ctx, "GET", "/orders", 200, 0.5)
	metrics.RecordRequest(ctx, "POST", "/orders", 400, 0.7)
	metrics.RecordRequest(ctx, "POST", "/orders", 400, 0.2)

	sum := collectSum(t, reader, "http_requests_total")
	if len(sum.DataPoints) != 2 {
		t.Fatalf("Expected 2 data points, got %d", len(sum.DataPoints))
	}
	for _, dp := range sum.DataPoints {
		method, _ := dp.Attributes.Value(attribute.Key("http.request.method"))
		if method.AsString() == "POST" && dp.Value != 2 {
			t.Errorf("expected 2 POST requests, got %d", dp.Value)
		}
	}
}

func TestWithMetrics(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	router := NewRouter(NewHandler(stubService{}, slog.New(slog.DiscardHandler)), metrics, slog.New(slog.DiscardHandler))

	for _, method := range []string{http.MethodGet, http.MethodGet, http.MethodDelete} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, "/orders", nil))
	}

	sum := collectSum(t, reader, "http_requests_total")
	if len(sum.DataPoints) != 2 {
		t.Fatalf("Expected 2 data points, got %d", len(sum.DataPoints))
	}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value(attribute.Key("http.route"))
		status, _ := dp.Attributes.Value(attribute.Key("http.response.status_code"))
		switch status.AsInt64() {
		case http.StatusOK:
			if dp.Value != 2 || route.AsString() != "/orders" {
				t.Errorf("expected 2 GET /orders, got %d on %q", dp.Value, route.AsString())
			}
		case http.StatusMethodNotAllowed:
			if dp.Value != 1 {
				t.Errorf("expected 1 rejected DELETE, got %d", dp.Value)
			}
		default:
			t.Errorf("unexpected status %d", status.AsInt64())
		}
	}
}

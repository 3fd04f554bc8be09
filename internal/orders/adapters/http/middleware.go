package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dejobratic/catalog/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// CorrelationIDHeader carries the caller's request identifier in both directions.
const CorrelationIDHeader = "X-Correlation-Id"

type routerOptions struct {
	limiter *RateLimiter
}

type RouterOption func(*routerOptions)

// WithLimiter applies limiter to the order routes only.
func WithLimiter(limiter *RateLimiter) RouterOption {
	return func(o *routerOptions) { o.limiter = limiter }
}

// NewRouter assembles the chi router with the request middleware chain and
// the order routes. metrics may be nil.
func NewRouter(h *Handler, metrics *Metrics, logger *slog.Logger, opts ...RouterOption) chi.Router {
	o := &routerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(WithCorrelationID)
	r.Use(WithRequestLogging(logger))
	r.Use(middleware.Recoverer)
	if metrics != nil {
		r.Use(WithMetrics(metrics))
	}

	r.Group(func(r chi.Router) {
		if o.limiter != nil {
			r.Use(WithRateLimit(o.limiter))
		}
		h.Routes(r)
	})
	return r
}

// WithCorrelationID reuses the inbound correlation id or mints a short one,
// stores it on the request context and echoes it on the response.
func WithCorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(CorrelationIDHeader))
		if id == "" {
			id = telemetry.NewShortID()
		}
		w.Header().Set(CorrelationIDHeader, id)

		ctx := telemetry.WithCorrelationID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithRequestLogging writes one line per request once it completes.
func WithRequestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// WithMetrics records request count and latency by method, route pattern and status.
func WithMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.RecordRequest(r.Context(), r.Method, routePattern(r), status, time.Since(start).Seconds())
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/go-chi/chi/v5"
)

// OrderService is the application surface the handlers call into.
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.OrderProfile, error)
	ListOrders(ctx context.Context) ([]domain.OrderProfile, error)
}

// Handler exposes HTTP endpoints for order operations.
type Handler struct {
	service OrderService
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service OrderService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes binds the order endpoints to r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body createOrderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.WarnContext(ctx, "rejected malformed order payload", "error", err)
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	req, err := body.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{
			Error:   err.Error(),
			Details: []domain.Failure{{Field: "publishedDate", Message: err.Error()}},
		})
		return
	}

	profile, err := h.service.CreateOrder(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(*profile))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	response := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, toProfileResponse(p))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var perr *domain.PersistenceError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Details: verr.Failures})
	case errors.As(err, &perr):
		h.logger.ErrorContext(ctx, "order persistence failed", "error", err)
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "failed to persist order"})
	default:
		h.logger.ErrorContext(ctx, "order request failed", "error", err)
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	writeJSON(w, status, body)
}

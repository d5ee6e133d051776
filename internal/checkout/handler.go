package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/startupstack/startupstack/internal/api"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

type createRequest struct {
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	UserID        string `json:"userId" validate:"required,uuid4"`
	VariantID     string `json:"variantId" validate:"required"`
}

type createResponse struct {
	CheckoutURL string `json:"checkout_url"`
	CheckoutID  string `json:"checkout_id"`
	UserID      string `json:"userId"`
	Success     bool   `json:"success"`
}

// Create handles POST /api/v1/checkout.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	session, err := h.svc.Create(r.Context(), req.CustomerEmail, userID, req.VariantID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			api.HandleError(w, api.ErrUserNotFound)
		case errors.Is(err, ErrNotConfigured):
			// Detail withheld: never tell callers which credential is missing.
			slog.Error("checkout misconfigured", "error", err)
			api.HandleError(w, api.ErrConfiguration)
		default:
			slog.Error("creating checkout", "error", err)
			api.JSONErrorMessage(w, http.StatusBadGateway, "Failed to create checkout")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(createResponse{
		CheckoutURL: session.URL,
		CheckoutID:  session.ID,
		UserID:      userID.String(),
		Success:     true,
	})
}

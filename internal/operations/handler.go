package operations

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/startupstack/startupstack/internal/api"
	"github.com/startupstack/startupstack/internal/llm"
	"github.com/startupstack/startupstack/internal/quota"
)

// ConfigErrorMessage is the exact body sent when the generation backend is
// misconfigured. Clients match on it to avoid retrying a hopeless call.
const ConfigErrorMessage = "Server configuration error: API key not available"

// Handler serves the AI-operations dispatch endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates a new operations Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type dispatchRequest struct {
	Operation string            `json:"operation"`
	Params    map[string]string `json:"params"`
	UserID    string            `json:"userId"`
}

type dispatchResponse struct {
	Result string `json:"result"`
}

// limitResponse is the quota-denied payload. It is sent with HTTP 200 —
// a deliberate wire-compat oddity kept from the original front end, which
// treats a non-2xx here as console noise. The isLimit flag is what clients
// key off.
type limitResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"errorType"`
	IsLimit   bool   `json:"isLimit"`
}

type unsupportedResponse struct {
	Error               string   `json:"error"`
	SupportedOperations []string `json:"supportedOperations"`
}

// Dispatch handles POST /api/v1/ai/operations.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.JSONErrorMessage(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.Operation == "" {
		api.JSONErrorMessage(w, http.StatusBadRequest, "Operation type is required")
		return
	}

	// An unparseable userId is treated as anonymous rather than rejected:
	// metering is best-effort and the generation itself must not be blocked.
	var userID *uuid.UUID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			slog.Warn("operations: invalid userId, treating as anonymous", "user_id", req.UserID)
		} else {
			userID = &id
		}
	}

	result, err := h.svc.Dispatch(r.Context(), Kind(req.Operation), req.Params, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dispatchResponse{Result: result})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, quota.ErrLimitReached) {
		writeJSON(w, http.StatusOK, limitResponse{
			Error:     quota.LimitMessage,
			ErrorType: "FREE_TRIAL_LIMIT",
			IsLimit:   true,
		})
		return
	}

	var unsupported *UnsupportedOperationError
	if errors.As(err, &unsupported) {
		writeJSON(w, http.StatusBadRequest, unsupportedResponse{
			Error:               fmt.Sprintf("Operation not supported: %s", unsupported.Operation),
			SupportedOperations: unsupported.Supported,
		})
		return
	}

	var missing *MissingParamsError
	if errors.As(err, &missing) {
		api.JSONErrorMessage(w, http.StatusBadRequest, fmt.Sprintf(
			"Missing required parameters: %s for operation %s",
			strings.Join(missing.Missing, ", "), missing.Operation))
		return
	}

	if kind, ok := llm.KindOf(err); ok {
		switch kind {
		case llm.KindTimeout:
			api.JSONErrorMessage(w, http.StatusRequestTimeout, "Request to AI service timed out. Please try again.")
		case llm.KindNetworkUnavailable:
			api.JSONErrorMessage(w, http.StatusServiceUnavailable, "Network error connecting to AI service. Please check your connection.")
		case llm.KindConfiguration:
			// Never leak which credential is missing.
			slog.Error("operations: generation backend misconfigured", "error", err)
			api.JSONErrorMessage(w, http.StatusInternalServerError, ConfigErrorMessage)
		case llm.KindMalformedResponse:
			slog.Error("operations: malformed backend response", "error", err)
			api.JSONErrorMessage(w, http.StatusInternalServerError, "No response from AI service")
		default:
			slog.Error("operations: generation backend fault", "error", err)
			msg := "Unknown error"
			var lerr *llm.Error
			if errors.As(err, &lerr) && lerr.Message != "" {
				msg = lerr.Message
			}
			api.JSONErrorMessage(w, http.StatusInternalServerError, "AI service error: "+msg)
		}
		return
	}

	slog.Error("operations: dispatch failed", "error", err)
	api.JSONErrorMessage(w, http.StatusInternalServerError, "Internal server error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

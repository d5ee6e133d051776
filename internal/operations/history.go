package operations

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/startupstack/startupstack/internal/api"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// HistoryLister reads back recorded operations for one user.
type HistoryLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Record, error)
}

// HistoryHandler serves the per-user operation history endpoint.
type HistoryHandler struct {
	store HistoryLister
}

func NewHistoryHandler(store HistoryLister) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List handles GET /api/v1/users/{userID}/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			api.HandleError(w, api.ErrBadRequest)
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	records, err := h.store.ListByUser(r.Context(), userID, limit)
	if err != nil {
		slog.Error("operations: listing history", "error", err, "user_id", userID)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if records == nil {
		records = []Record{}
	}

	api.JSON(w, http.StatusOK, records)
}

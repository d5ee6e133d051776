package operations

import (
	"time"

	"github.com/google/uuid"
)

// Record matches the operation_history table schema. Rows are written once
// per successfully completed generation call with a known user, and never
// updated or deleted by this service.
type Record struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	OperationType string            `json:"operation_type"`
	InputParams   map[string]string `json:"input_params"`
	OutputResult  string            `json:"output_result"`
	CreatedAt     time.Time         `json:"created_at"`
}

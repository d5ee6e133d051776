package users

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses stored on the users table. Only StatusFreeTrial is
// metered by the quota service.
const (
	StatusPending           = "pending"
	StatusFreeTrial         = "free_trial"
	StatusPendingActivation = "pending_activation"
	StatusActive            = "active"
)

// User matches the users table schema.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	SubscriptionStatus string    `json:"subscription_status"`
	PlanType           string    `json:"plan_type,omitempty"`
	CheckoutID         string    `json:"checkout_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/startupstack/startupstack/internal/metrics"
	"github.com/startupstack/startupstack/internal/users"
)

// ErrUserNotFound means the customer could not be verified against the
// users table.
var ErrUserNotFound = errors.New("user not found")

const (
	verifyAttempts = 3
	updateAttempts = 3
)

// Plan variant IDs sold through the store.
var variantPlans = map[string]string{
	"877610": "lifetime",
	"877609": "starter",
	"877605": "pro",
}

// PlanForVariant maps a store variant ID to its plan name.
func PlanForVariant(variantID string) string {
	if plan, ok := variantPlans[variantID]; ok {
		return plan
	}
	return "subscription"
}

// UserStore is the slice of the users service the checkout flow needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
	UpdateSubscription(ctx context.Context, id uuid.UUID, status, planType, checkoutID string) error
}

// Creator opens a hosted checkout session.
type Creator interface {
	Create(ctx context.Context, email string, userID uuid.UUID, variantID string) (*Checkout, error)
}

// Service verifies the purchasing user, creates the hosted checkout, and
// marks the user pending activation.
type Service struct {
	users     UserStore
	client    Creator
	baseDelay time.Duration
}

// NewService creates a checkout Service.
func NewService(userStore UserStore, client Creator) *Service {
	return &Service{
		users:     userStore,
		client:    client,
		baseDelay: 500 * time.Millisecond,
	}
}

// Create runs the full checkout flow. Verification retries cover the window
// where a signup row hasn't replicated yet; the post-checkout user update is
// best-effort because the payment webhook will set the final status anyway.
func (s *Service) Create(ctx context.Context, email string, userID uuid.UUID, variantID string) (*Checkout, error) {
	user, err := s.verifyUser(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	plan := PlanForVariant(variantID)

	session, err := s.client.Create(ctx, user.Email, user.ID, variantID)
	if err != nil {
		return nil, err
	}
	metrics.CheckoutsCreatedTotal.Inc()

	s.markPendingActivation(ctx, user.ID, plan, session.ID)
	return session, nil
}

func (s *Service) verifyUser(ctx context.Context, userID uuid.UUID, email string) (*users.User, error) {
	for attempt := 1; attempt <= verifyAttempts; attempt++ {
		user, err := s.users.GetByID(ctx, userID)
		if err == nil && user != nil && user.Email == email {
			return user, nil
		}
		if err != nil {
			slog.Warn("checkout: user lookup failed", "error", err, "user_id", userID, "attempt", attempt)
		}
		if attempt < verifyAttempts {
			select {
			case <-time.After(time.Duration(attempt) * s.baseDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, ErrUserNotFound
}

func (s *Service) markPendingActivation(ctx context.Context, userID uuid.UUID, plan, checkoutID string) {
	for attempt := 1; attempt <= updateAttempts; attempt++ {
		err := s.users.UpdateSubscription(ctx, userID, users.StatusPendingActivation, plan, checkoutID)
		if err == nil {
			return
		}
		slog.Warn("checkout: updating user after checkout failed", "error", err, "user_id", userID, "attempt", attempt)
		if attempt < updateAttempts {
			select {
			case <-time.After(time.Duration(attempt) * s.baseDelay):
			case <-ctx.Done():
				return
			}
		}
	}
}

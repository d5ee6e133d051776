package quota

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/startupstack/startupstack/internal/metrics"
)

// ErrLimitReached is returned by Check when a free-trial user has already
// used today's allowance for the given operation type. It is the only error
// Check ever returns; infrastructure failures are absorbed.
var ErrLimitReached = errors.New(LimitMessage)

// SubscriptionLookup resolves a user's current subscription status.
type SubscriptionLookup interface {
	SubscriptionStatus(ctx context.Context, userID uuid.UUID) (string, error)
}

// UsageCounter counts recorded operations of one type for a user inside a
// time window.
type UsageCounter interface {
	CountInWindow(ctx context.Context, userID uuid.UUID, operationType string, start, end time.Time) (int, error)
}

// Service enforces the daily free-trial allowance. Lookup failures never
// block a request: the service fails open so a database hiccup cannot stop
// a legitimate generation call.
type Service struct {
	users      SubscriptionLookup
	usage      UsageCounter
	dailyLimit int
	now        func() time.Time
}

// NewService creates a quota Service. dailyLimit is the per-tool, per-UTC-day
// allowance for free-trial users.
func NewService(users SubscriptionLookup, usage UsageCounter, dailyLimit int) *Service {
	return &Service{
		users:      users,
		usage:      usage,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// Check returns ErrLimitReached when the user is on a free trial and has
// already recorded an operation of this type today (UTC). Any other outcome,
// including lookup errors, is nil.
func (s *Service) Check(ctx context.Context, userID uuid.UUID, operationType string) error {
	status, err := s.users.SubscriptionStatus(ctx, userID)
	if err != nil {
		slog.Warn("quota: subscription lookup failed, allowing request", "error", err, "user_id", userID)
		return nil
	}

	if status != StatusFreeTrial {
		return nil
	}

	start, end := DayWindow(s.now())
	used, err := s.usage.CountInWindow(ctx, userID, operationType, start, end)
	if err != nil {
		slog.Warn("quota: usage count failed, allowing request", "error", err, "user_id", userID)
		return nil
	}

	if Evaluate(status, used, s.dailyLimit) == Denied {
		metrics.QuotaDenialsTotal.WithLabelValues(operationType).Inc()
		return ErrLimitReached
	}
	return nil
}

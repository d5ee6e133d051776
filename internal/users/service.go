package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service wraps the repository with a short-TTL Redis cache. The cache is
// best-effort: Redis failures degrade to direct repository reads.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService creates a users Service. cache may be nil to disable caching.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Signup returns the existing user for email, or creates one with status
// "pending". The second return reports whether a new row was created.
func (s *Service) Signup(ctx context.Context, email string) (*User, bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now().UTC()
	user := &User{
		ID:                 uuid.New(),
		Email:              email,
		SubscriptionStatus: StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// GetByID returns the user, consulting the cache first. A cache error is
// treated as a miss.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			slog.Debug("users: cache read failed", "error", err, "user_id", id)
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user != nil && s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			slog.Debug("users: cache write failed", "error", err, "user_id", id)
		}
	}
	return user, nil
}

// SubscriptionStatus resolves the user's subscription status for quota
// checks. An unknown user is an error so the quota service can fail open.
func (s *Service) SubscriptionStatus(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("user %s not found", id)
	}
	return user.SubscriptionStatus, nil
}

// UpdateSubscription updates the subscription fields and drops the cached
// entry.
func (s *Service) UpdateSubscription(ctx context.Context, id uuid.UUID, status, planType, checkoutID string) error {
	if err := s.repo.UpdateSubscription(ctx, id, status, planType, checkoutID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			slog.Debug("users: cache invalidation failed", "error", err, "user_id", id)
		}
	}
	return nil
}

// Invalidate drops the cached entry for the user. It is called after an
// operation record is written so usage views don't serve stale state.
func (s *Service) Invalidate(ctx context.Context, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, id)
}

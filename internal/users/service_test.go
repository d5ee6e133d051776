package users

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
	creates int
	getByID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.creates++
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	f.getByID++
	return f.byID[id], nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	return f.byEmail[email], nil
}

func (f *fakeRepo) UpdateSubscription(_ context.Context, id uuid.UUID, status, planType, checkoutID string) error {
	if u, ok := f.byID[id]; ok {
		u.SubscriptionStatus = status
		u.PlanType = planType
		u.CheckoutID = checkoutID
	}
	return nil
}

func TestSignup_CreatesThenReturnsExisting(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, created, err := svc.Signup(ctx, "founder@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, StatusPending, first.SubscriptionStatus)

	second, created, err := svc.Signup(ctx, "founder@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.creates)
}

func TestGetByID_ServesFromCacheOnSecondRead(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newFakeRepo()
	svc := NewService(repo, NewCache(client))
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "founder@example.com")
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.getByID, "second read should hit the cache")
}

func TestSubscriptionStatus_UnknownUserIsError(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	_, err := svc.SubscriptionStatus(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestUpdateSubscription_InvalidatesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newFakeRepo()
	svc := NewService(repo, NewCache(client))
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "founder@example.com")
	require.NoError(t, err)

	// Prime the cache, then change the subscription.
	_, err = svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateSubscription(ctx, user.ID, StatusPendingActivation, "pro", "chk_123"))

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusPendingActivation, got.SubscriptionStatus)
}

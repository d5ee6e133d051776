package users

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client), mr
}

func sampleUser() *User {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	return &User{
		ID:                 uuid.New(),
		Email:              "founder@example.com",
		SubscriptionStatus: StatusFreeTrial,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestCache_MissReturnsNil(t *testing.T) {
	c, _ := setupCache(t)
	got, err := c.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_SetThenGet(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	user := sampleUser()

	require.NoError(t, c.Set(ctx, user))

	got, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, StatusFreeTrial, got.SubscriptionStatus)
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	user := sampleUser()

	require.NoError(t, c.Set(ctx, user))
	require.NoError(t, c.Invalidate(ctx, user.ID))

	got, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_EntryExpires(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()
	user := sampleUser()

	require.NoError(t, c.Set(ctx, user))
	mr.FastForward(cacheTTL + time.Second)

	got, err := c.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

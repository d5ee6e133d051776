package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptions struct {
	status string
	err    error
}

func (f *fakeSubscriptions) SubscriptionStatus(_ context.Context, _ uuid.UUID) (string, error) {
	return f.status, f.err
}

type fakeUsage struct {
	count int
	err   error

	gotStart time.Time
	gotEnd   time.Time
	gotType  string
}

func (f *fakeUsage) CountInWindow(_ context.Context, _ uuid.UUID, operationType string, start, end time.Time) (int, error) {
	f.gotType = operationType
	f.gotStart = start
	f.gotEnd = end
	return f.count, f.err
}

func TestCheck_FreeTrialUnderLimit(t *testing.T) {
	svc := NewService(&fakeSubscriptions{status: StatusFreeTrial}, &fakeUsage{count: 0}, 1)
	err := svc.Check(context.Background(), uuid.New(), "generateBusinessNames")
	assert.NoError(t, err)
}

func TestCheck_FreeTrialAtLimit(t *testing.T) {
	usage := &fakeUsage{count: 1}
	svc := NewService(&fakeSubscriptions{status: StatusFreeTrial}, usage, 1)

	err := svc.Check(context.Background(), uuid.New(), "generateBusinessNames")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Equal(t, "generateBusinessNames", usage.gotType)
}

func TestCheck_PaidUserSkipsUsageCount(t *testing.T) {
	usage := &fakeUsage{count: 50, err: errors.New("should not be called")}
	svc := NewService(&fakeSubscriptions{status: "active"}, usage, 1)

	err := svc.Check(context.Background(), uuid.New(), "generateLogo")
	assert.NoError(t, err)
	assert.Empty(t, usage.gotType, "usage counter must not be queried for paid users")
}

func TestCheck_FailsOpenOnSubscriptionLookupError(t *testing.T) {
	svc := NewService(&fakeSubscriptions{err: errors.New("db down")}, &fakeUsage{count: 10}, 1)
	err := svc.Check(context.Background(), uuid.New(), "analyzeMarket")
	assert.NoError(t, err, "infrastructure errors must not block the request")
}

func TestCheck_FailsOpenOnUsageCountError(t *testing.T) {
	svc := NewService(&fakeSubscriptions{status: StatusFreeTrial}, &fakeUsage{err: errors.New("db down")}, 1)
	err := svc.Check(context.Background(), uuid.New(), "analyzeMarket")
	assert.NoError(t, err, "infrastructure errors must not block the request")
}

func TestCheck_UsesUTCDayWindow(t *testing.T) {
	usage := &fakeUsage{count: 0}
	svc := NewService(&fakeSubscriptions{status: StatusFreeTrial}, usage, 1)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 13, 45, 0, 0, time.UTC)
	}

	_ = svc.Check(context.Background(), uuid.New(), "generateFinancials")
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), usage.gotStart)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), usage.gotEnd)
}

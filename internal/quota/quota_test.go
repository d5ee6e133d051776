package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_NonFreeTrialAlwaysAllowed(t *testing.T) {
	for _, status := range []string{"active", "pending", "pending_activation", "lifetime", ""} {
		for _, used := range []int{0, 1, 5, 100} {
			assert.Equal(t, Allowed, Evaluate(status, used, 1),
				"status=%q used=%d", status, used)
		}
	}
}

func TestEvaluate_FreeTrial(t *testing.T) {
	assert.Equal(t, Allowed, Evaluate(StatusFreeTrial, 0, 1))
	assert.Equal(t, Denied, Evaluate(StatusFreeTrial, 1, 1))
	for _, used := range []int{2, 3, 10} {
		assert.Equal(t, Denied, Evaluate(StatusFreeTrial, used, 1), "used=%d", used)
	}
}

func TestEvaluate_ConfigurableLimit(t *testing.T) {
	assert.Equal(t, Allowed, Evaluate(StatusFreeTrial, 2, 3))
	assert.Equal(t, Denied, Evaluate(StatusFreeTrial, 3, 3))
}

func TestDayWindow_UTCBoundaries(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	start, end := DayWindow(now)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), end)
}

func TestDayWindow_IgnoresCallerLocale(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 3, 14, 23, 30, 0, 0, loc)
	start, _ := DayWindow(now)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), start)
}

func TestDayWindow_MidnightIsInclusiveStart(t *testing.T) {
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	start, end := DayWindow(now)
	assert.Equal(t, now, start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

package quota

import "time"

// DayWindow returns the UTC calendar-day interval [start, end) containing
// now. Operations are counted against this window, so the daily allowance
// resets at UTC midnight regardless of the caller's locale.
func DayWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

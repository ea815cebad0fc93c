package util

import "time"

// AddMonths moves t forward by months calendar months, keeping the day of
// month where possible. Days past the end of the target month land on its
// last day (Jan 31 + 1 month is Feb 28/29, not Mar 3).
func AddMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	actual := CalculateActualDate(first.Year(), first.Month(), t.Day(), t.Location())
	return time.Date(actual.Year(), actual.Month(), actual.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// CalculateActualDate returns the actual date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in February returns Feb 28/29)
func CalculateActualDate(year int, month time.Month, targetDay int, loc *time.Location) time.Time {
	// Get last day of month by going to day 0 of next month
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()

	actualDay := targetDay
	if actualDay > lastDay {
		actualDay = lastDay
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, loc)
}

// MonthsBetween counts calendar months from a to b, ignoring the day of month
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

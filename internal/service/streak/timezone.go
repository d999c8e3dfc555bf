package streak

import "time"

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CivilDate returns the calendar date of t in the given timezone,
// formatted with domain.CivilDateLayout.
func CivilDate(t time.Time, tz *time.Location) string {
	return t.In(tz).Format("2006-01-02")
}

// DayStart returns the start of t's day in the given timezone, converted to UTC.
func DayStart(t time.Time, tz *time.Location) time.Time {
	local := t.In(tz)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
	return dayStart.UTC()
}

// NextDayStart returns the start of the day after t's day in the given
// timezone, converted to UTC.
func NextDayStart(t time.Time, tz *time.Location) time.Time {
	dayStart := DayStart(t, tz)
	// AddDate handles DST correctly, Add(24h) does not
	next := dayStart.In(tz).AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, tz).UTC()
}

// previousCivilDate returns the calendar date of the day before t's day
// in the given timezone.
func previousCivilDate(t time.Time, tz *time.Location) string {
	local := t.In(tz)
	return local.AddDate(0, 0, -1).Format("2006-01-02")
}

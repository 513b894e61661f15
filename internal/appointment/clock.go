package appointment

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// dateLayouts are tried in order; anything with a zone is converted to UTC
// before the time of day is dropped.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ClockMinutes converts an HH:MM string to minutes since midnight.
func ClockMinutes(s string) (int, error) {
	if !ValidClock(s) {
		return 0, fmt.Errorf("%w: %q is not a HH:MM time", ErrValidation, s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as zero padded HH:MM. Values past
// 23:59 are not wrapped.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeDate keeps only the UTC calendar day of t.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts an ISO-8601 date or date-time and returns its UTC midnight.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date format %q", ErrValidation, s)
}

// SlotKey identifies one bookable slot across processes.
func SlotKey(doctorID uuid.UUID, date time.Time, startTime string) string {
	return fmt.Sprintf("%s:%s:%s", doctorID, date.Format(time.DateOnly), startTime)
}

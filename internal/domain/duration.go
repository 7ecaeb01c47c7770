package domain

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// FormatDuration renders d as H:MM:SS, prefixed with "N day(s), " for
// spans of a day or more and suffixed with microseconds when present.
// Negative spans borrow whole days, so -1s renders as "-1 day, 23:59:59".
func FormatDuration(d time.Duration) string {
	d = d.Truncate(time.Microsecond)

	days := int64(d / day)
	rem := d % day
	if rem < 0 {
		days--
		rem += day
	}

	hours := int64(rem / time.Hour)
	minutes := int64(rem % time.Hour / time.Minute)
	seconds := int64(rem % time.Minute / time.Second)
	micros := int64(rem % time.Second / time.Microsecond)

	s := fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	if micros != 0 {
		s += fmt.Sprintf(".%06d", micros)
	}
	if days != 0 {
		unit := "days"
		if days == 1 || days == -1 {
			unit = "day"
		}
		s = fmt.Sprintf("%d %s, %s", days, unit, s)
	}
	return s
}

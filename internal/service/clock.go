package service

import (
	"time"
)

// clockLayout is the "HH:MM" wall-clock format operators type.
const clockLayout = "15:04"

// resolveClock turns an operator-typed "HH:MM" into the display string and
// the instant it denotes on today's date in loc. An empty or unparsable
// value means now.
func resolveClock(raw string, now time.Time, loc *time.Location) (string, time.Time) {
	local := now.In(loc)
	if raw == "" {
		return local.Format(clockLayout), now
	}

	hm, err := time.Parse(clockLayout, raw)
	if err != nil {
		return local.Format(clockLayout), now
	}

	at := time.Date(local.Year(), local.Month(), local.Day(), hm.Hour(), hm.Minute(), 0, 0, loc)
	return at.Format(clockLayout), at.UTC()
}

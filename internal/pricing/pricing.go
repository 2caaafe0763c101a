// Package pricing computes parking fees from a lot's tariff configuration
// and a session's time range. It is pure: no clock reads except when the
// session is still open, no storage access.
package pricing

import (
	"math"
	"time"
)

// GracePeriod is the stay length below which no fee is charged.
const GracePeriod = 180 * time.Second

// Tariff is a lot's rate configuration. Hourly is charged per started hour;
// Daily caps a same-day stay and prices each calendar day of a multi-day
// stay.
type Tariff struct {
	Hourly float64
	Daily  float64
}

// Quote is a priced session. Hours is always the stay rounded up to whole
// hours, even when the fee was computed from days or waived by the grace
// period. Days is zero unless the stay crossed a calendar-date boundary.
type Quote struct {
	Fee   float64 `json:"fee"`
	Hours int     `json:"hours"`
	Days  int     `json:"days"`
}

// Calculate prices a session. A nil stopped means the session is still open
// and the current time is used as the end of the range.
func Calculate(t Tariff, started time.Time, stopped *time.Time) Quote {
	end := time.Now()
	if stopped != nil {
		end = *stopped
	}
	return calculateAt(t, started, end)
}

// calculateAt prices the range [started, end]. Billing rules:
//
//  1. Stays shorter than GracePeriod are free.
//  2. A stay whose end falls on a later calendar date than its start is
//     priced per day: Daily times (whole elapsed days + 1). The date test is
//     a calendar roll-over, not an elapsed-24h test, so 23:50 to 00:10 is a
//     two-day stay.
//  3. A same-day stay is priced per started hour, capped at Daily.
func calculateAt(t Tariff, started, end time.Time) Quote {
	elapsed := end.Sub(started)
	hours := int(math.Ceil(elapsed.Seconds() / 3600))

	if elapsed < GracePeriod {
		return Quote{Fee: 0, Hours: hours, Days: 0}
	}

	if laterDate(end, started) {
		days := int(elapsed/(24*time.Hour)) + 1
		return Quote{Fee: t.Daily * float64(days), Hours: hours, Days: days}
	}

	fee := t.Hourly * float64(hours)
	if fee > t.Daily {
		fee = t.Daily
	}
	return Quote{Fee: fee, Hours: hours, Days: 0}
}

// laterDate reports whether a falls on a later calendar date than b.
func laterDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

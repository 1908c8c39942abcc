// Package biztime holds time helpers for report timestamps.
// Storage and transport use UTC ISO-8601 strings; the business timezone is
// only used for calendar boundaries in statistics.
package biztime

import (
	"fmt"
	"math"
	"sync"
	"time"
	_ "time/tzdata"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Europe/Moscow"

	// ISOLayout is the wire format of report timestamps (millisecond precision, UTC).
	ISOLayout = "2006-01-02T15:04:05.000Z07:00"
)

var (
	bizLocation *time.Location
	locMu       sync.RWMutex
)

// Init sets the business timezone. An empty name selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	locMu.Lock()
	bizLocation = loc
	locMu.Unlock()
	return nil
}

// Location returns the business timezone, falling back to UTC when the
// default zone database is unavailable.
func Location() *time.Location {
	locMu.RLock()
	loc := bizLocation
	locMu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		return time.UTC
	}
	return Location()
}

// NowUTC returns current time in UTC truncated to milliseconds, the
// resolution of the wire format.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FormatISO renders t as a UTC ISO-8601 string.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseISO accepts RFC 3339 timestamps with or without fractional seconds.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// CalendarDaysSince returns the number of calendar days in the business
// timezone between t and now. A report from 23:30 yesterday is one day old
// at 00:30 today. Future days yield a negative value.
func CalendarDaysSince(t, now time.Time) int {
	return int(math.Round(StartOfDay(now).Sub(StartOfDay(t)).Hours() / 24))
}

// StartOfDay returns midnight of t's calendar day in the business timezone.
func StartOfDay(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location())
}

package timezone

import (
	"fmt"
	"time"

	apperrors "perch/internal/errors"
)

// DefaultZone is the venue's zone. Every calendar-day computation is anchored
// here, never to the server's local clock.
const DefaultZone = "Asia/Bangkok"

const (
	apiLayout     = "2006-01-02"
	displayLayout = "Monday, 2 January 2006"
)

// Normalizer converts between wall-clock dates in one fixed named zone and the
// canonical instants used as datastore keys. A canonical instant is the
// absolute point in time of local midnight of a calendar day in the fixed
// zone, so the same day always maps to the same instant regardless of where
// the process runs.
type Normalizer struct {
	loc *time.Location
}

func New(zoneName string) (*Normalizer, error) {
	if zoneName == "" {
		zoneName = DefaultZone
	}
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", zoneName, err)
	}
	return &Normalizer{loc: loc}, nil
}

// Location exposes the fixed zone for callers that format times themselves.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// FormatForAPI renders the calendar date of t as seen in the fixed zone.
func (n *Normalizer) FormatForAPI(t time.Time) string {
	return t.In(n.loc).Format(apiLayout)
}

// ParseCanonical parses a date-only string or an RFC 3339 instant and returns
// the canonical instant of the calendar day it denotes in the fixed zone.
// Unparseable input yields an InvalidDateError.
func (n *Normalizer) ParseCanonical(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(apiLayout, value, n.loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return n.CanonicalDay(t), nil
	}
	return time.Time{}, &apperrors.InvalidDateError{Value: value}
}

// CanonicalDay normalizes an arbitrary instant to the canonical instant of the
// calendar day it falls on in the fixed zone. The offset is measured at that
// specific date via time.Date, so zones with historical or DST shifts resolve
// correctly.
func (n *Normalizer) CanonicalDay(t time.Time) time.Time {
	local := t.In(n.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, n.loc)
}

// AddDays steps a canonical day by whole calendar days in the fixed zone.
func (n *Normalizer) AddDays(day time.Time, days int) time.Time {
	local := day.In(n.loc)
	return time.Date(local.Year(), local.Month(), local.Day()+days, 0, 0, 0, 0, n.loc)
}

// DaysInclusive enumerates the canonical days from start to end, both
// included. An end before start yields an empty slice.
func (n *Normalizer) DaysInclusive(start, end time.Time) []time.Time {
	start = n.CanonicalDay(start)
	end = n.CanonicalDay(end)

	var days []time.Time
	for d := start; !d.After(end); d = n.AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// FormatForDisplay renders a human-readable date in the fixed zone. Display
// paths must never fail a page render, so unparseable input returns "".
func (n *Normalizer) FormatForDisplay(value string) string {
	t, err := n.ParseCanonical(value)
	if err != nil {
		return ""
	}
	return t.In(n.loc).Format(displayLayout)
}

// FormatTimeForDisplay is the instant-input variant of FormatForDisplay.
func (n *Normalizer) FormatTimeForDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(n.loc).Format(displayLayout)
}

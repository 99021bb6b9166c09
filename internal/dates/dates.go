// Package dates isolates the date-parsing complexity of the reconciliation
// engine: heterogeneous single-date formats, "X to Y" ranges, and month-year
// inference ("April 2025" spans the whole calendar month).
//
// All entry points are total functions. Malformed input yields ok=false,
// never a panic or an error value.
package dates

import (
	"strings"
	"time"
)

// RangeSeparator joins the two sides of a date range in upstream data.
const RangeSeparator = " to "

// layouts is the ordered list of accepted single-date formats, tried
// most-specific first. Both zero-padded and bare day/month variants are
// listed because time.Parse treats them as distinct.
var layouts = []string{
	time.RFC3339,          // 2006-01-02T15:04:05Z07:00
	"2006-01-02T15:04:05", // ISO without zone
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-January-2006",
	"2-January-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02-Jan-06",
	"2-Jan-06",
	"02/01/06",
	// US month-first forms come after the day-first forms, so they only
	// catch inputs whose first component exceeds 12.
	"01/02/2006",
	"01.02.2006",
	"01/02/06",
	"20060102",
}

// monthYearLayouts cover month-plus-year inputs used for period inference.
var monthYearLayouts = []string{
	"January 2006",
	"Jan 2006",
	"January, 2006",
	"Jan, 2006",
	"2006-01",
	"01/2006",
	"1/2006",
}

// Range is an inclusive calendar date range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Equal reports whether both endpoints fall on the same calendar days.
func (r Range) Equal(other Range) bool {
	return sameDay(r.Start, other.Start) && sameDay(r.End, other.End)
}

// Parse attempts to parse s as a single date using the ordered format list.
// The result is truncated to a date at midnight UTC.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toDate(t), true
		}
	}
	return time.Time{}, false
}

// ParseMonthYear parses a month-plus-year string and expands it to the full
// calendar month, with the month length (February and leap years included)
// resolved by the platform calendar.
func ParseMonthYear(s string) (Range, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, false
	}

	for _, layout := range monthYearLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return Range{Start: start, End: end}, true
	}
	return Range{}, false
}

// ParseRange parses a date range. Input joined by " to " is split and each
// side parsed as a single date, falling back to month-year inference (start
// of month for the left side, end of month for the right). Input without
// the separator is treated as a single month-year spanning the whole month.
func ParseRange(s string) (Range, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, false
	}

	if !strings.Contains(s, RangeSeparator) {
		return ParseMonthYear(s)
	}

	parts := strings.SplitN(s, RangeSeparator, 2)
	start, ok := parseRangeSide(parts[0], false)
	if !ok {
		return Range{}, false
	}
	end, ok := parseRangeSide(parts[1], true)
	if !ok {
		return Range{}, false
	}

	return Range{Start: start, End: end}, true
}

// parseRangeSide parses one side of a range: a plain date, or a month-year
// resolved to the month's first or last day depending on the side.
func parseRangeSide(s string, isEnd bool) (time.Time, bool) {
	if t, ok := Parse(s); ok {
		return t, true
	}

	r, ok := ParseMonthYear(s)
	if !ok {
		return time.Time{}, false
	}
	if isEnd {
		return r.End, true
	}
	return r.Start, true
}

// DaysBetween returns the absolute number of whole days between two dates.
func DaysBetween(a, b time.Time) int {
	diff := toDate(a).Sub(toDate(b))
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

func toDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return toDate(a).Equal(toDate(b))
}

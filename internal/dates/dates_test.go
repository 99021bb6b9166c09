package dates

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_Formats(t *testing.T) {
	expected := date(2025, time.March, 31)

	inputs := []string{
		"2025-03-31",
		"2025-03-31T10:30:00Z",
		"2025-03-31 10:30:00",
		"2025/03/31",
		"31-Mar-2025",
		"31-March-2025",
		"Mar 31, 2025",
		"March 31, 2025",
		"31 Mar 2025",
		"31 March 2025",
		"31/03/2025",
		"31-03-2025",
		"31.03.2025",
		"31-Mar-25",
		"31/03/25",
		"03/31/2025",
		"03.31.2025",
		"03/31/25",
		"20250331",
	}

	for _, input := range inputs {
		got, ok := Parse(input)
		if !ok {
			t.Errorf("Parse(%q) failed", input)
			continue
		}
		if !got.Equal(expected) {
			t.Errorf("Parse(%q) = %v, want %v", input, got, expected)
		}
	}
}

func TestParse_DayFirstWinsAmbiguity(t *testing.T) {
	// When both readings are valid calendar dates, the day-first layouts
	// come earlier in the list and win; month-first only catches inputs
	// whose first component cannot be a month.
	got, ok := Parse("05/04/2025")
	if !ok {
		t.Fatal("Parse(05/04/2025) failed")
	}
	if want := date(2025, time.April, 5); !got.Equal(want) {
		t.Errorf("Parse(05/04/2025) = %v, want %v", got, want)
	}
}

func TestParse_UnpaddedDay(t *testing.T) {
	expected := date(2025, time.April, 5)

	inputs := []string{
		"2025-4-5",
		"5-Apr-2025",
		"5/4/2025",
		"5-4-2025",
		"5.4.2025",
	}

	for _, input := range inputs {
		got, ok := Parse(input)
		if !ok {
			t.Errorf("Parse(%q) failed", input)
			continue
		}
		if !got.Equal(expected) {
			t.Errorf("Parse(%q) = %v, want %v", input, got, expected)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not a date",
		"April 2025", // month-year is not a single date
		"32/13/2025",
		"2025-99-99",
	}

	for _, input := range inputs {
		if got, ok := Parse(input); ok {
			t.Errorf("Parse(%q) = %v, expected failure", input, got)
		}
	}
}

func TestParseMonthYear(t *testing.T) {
	tests := []struct {
		input string
		start time.Time
		end   time.Time
	}{
		{"April 2025", date(2025, time.April, 1), date(2025, time.April, 30)},
		{"Jan 2025", date(2025, time.January, 1), date(2025, time.January, 31)},
		{"February 2025", date(2025, time.February, 1), date(2025, time.February, 28)},
		{"February 2024", date(2024, time.February, 1), date(2024, time.February, 29)}, // leap year
		{"2025-04", date(2025, time.April, 1), date(2025, time.April, 30)},
		{"04/2025", date(2025, time.April, 1), date(2025, time.April, 30)},
	}

	for _, tt := range tests {
		got, ok := ParseMonthYear(tt.input)
		if !ok {
			t.Errorf("ParseMonthYear(%q) failed", tt.input)
			continue
		}
		if !got.Start.Equal(tt.start) || !got.End.Equal(tt.end) {
			t.Errorf("ParseMonthYear(%q) = [%v, %v], want [%v, %v]",
				tt.input, got.Start, got.End, tt.start, tt.end)
		}
	}
}

func TestParseMonthYear_Malformed(t *testing.T) {
	for _, input := range []string{"", "2025", "nonsense", "2025-03-31"} {
		if got, ok := ParseMonthYear(input); ok {
			t.Errorf("ParseMonthYear(%q) = %v, expected failure", input, got)
		}
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start time.Time
		end   time.Time
	}{
		{
			"explicit dates",
			"2025-01-01 to 2025-03-31",
			date(2025, time.January, 1), date(2025, time.March, 31),
		},
		{
			"month inference both sides",
			"January 2025 to March 2025",
			date(2025, time.January, 1), date(2025, time.March, 31),
		},
		{
			"mixed date and month",
			"2025-01-15 to February 2025",
			date(2025, time.January, 15), date(2025, time.February, 28),
		},
		{
			"single month spans whole month",
			"April 2025",
			date(2025, time.April, 1), date(2025, time.April, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRange(tt.input)
			if !ok {
				t.Fatalf("ParseRange(%q) failed", tt.input)
			}
			if !got.Start.Equal(tt.start) || !got.End.Equal(tt.end) {
				t.Errorf("ParseRange(%q) = [%v, %v], want [%v, %v]",
					tt.input, got.Start, got.End, tt.start, tt.end)
			}
		})
	}
}

func TestParseRange_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"2025-01-01", // plain date, not a range
		"garbage to 2025-03-31",
		"2025-01-01 to garbage",
	}

	for _, input := range inputs {
		if got, ok := ParseRange(input); ok {
			t.Errorf("ParseRange(%q) = %v, expected failure", input, got)
		}
	}
}

func TestRange_Equal(t *testing.T) {
	a := Range{Start: date(2025, time.January, 1), End: date(2025, time.March, 31)}
	b := Range{Start: date(2025, time.January, 1), End: date(2025, time.March, 31)}
	c := Range{Start: date(2025, time.January, 2), End: date(2025, time.March, 31)}

	if !a.Equal(b) {
		t.Error("identical ranges should be equal")
	}
	if a.Equal(c) {
		t.Error("ranges with different starts should not be equal")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b     time.Time
		expected int
	}{
		{date(2025, time.March, 31), date(2025, time.March, 31), 0},
		{date(2025, time.March, 31), date(2025, time.April, 1), 1},
		{date(2025, time.April, 1), date(2025, time.March, 31), 1},
		{date(2025, time.January, 1), date(2025, time.December, 31), 364},
	}

	for _, tt := range tests {
		if got := DaysBetween(tt.a, tt.b); got != tt.expected {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

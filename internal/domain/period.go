package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PeriodLayout is the wire format for calendar months, e.g. "2025-04".
const PeriodLayout = "2006-01"

// Period is a calendar month. The zero value is not a valid period.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParsePeriod parses a "YYYY-MM" string into a Period.
func ParsePeriod(s string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	p := Period{Year: year, Month: month}
	if !p.Valid() {
		return Period{}, fmt.Errorf("invalid period %q: month out of range", s)
	}
	return p, nil
}

// Valid reports whether the period denotes a real month.
func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

// String renders the period as "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// AddMonths returns the period n months after p. n may be negative.
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + (p.Month - 1) + n
	return Period{Year: idx / 12, Month: idx%12 + 1}
}

// SameMonthPriorYear returns the same calendar month one year earlier.
func (p Period) SameMonthPriorYear() Period {
	return p.AddMonths(-12)
}

// Next returns the following month.
func (p Period) Next() Period {
	return p.AddMonths(1)
}

// Before reports whether p is chronologically earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// After reports whether p is chronologically later than other.
func (p Period) After(other Period) bool {
	return other.Before(p)
}

// MarshalText implements encoding.TextMarshaler so Period can key JSON maps.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

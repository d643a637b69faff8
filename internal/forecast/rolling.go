// Package forecast projects ending inventory and weeks-of-inventory month
// by month from a starting position, a year-over-year growth assumption,
// and a schedule of expected incoming purchases, and back-solves the order
// budget that holds a future month at a target weeks-of-inventory level.
package forecast

import (
	"fmt"
	"strings"
)

// Weekly-rate conversion uses a fixed 30-day month. This is a deliberate
// simplification, not calendar arithmetic: the comparative figures across
// the dashboard all assume monthly/30*7 and changing it would shift every
// regression number.
const (
	daysPerMonth = 30.0
	daysPerWeek  = 7.0
)

// WindowMonths is the trailing-average window behind the 4/8/12-week
// weeks-of-inventory bases: 1, 2 or 3 months.
type WindowMonths int

// ParseWindow maps the dashboard's weeks-type parameter to a window size.
func ParseWindow(weeksType string) (WindowMonths, error) {
	switch strings.ToLower(strings.TrimSpace(weeksType)) {
	case "", "4weeks":
		return 1, nil
	case "8weeks":
		return 2, nil
	case "12weeks":
		return 3, nil
	}
	return 0, fmt.Errorf("unknown weeks type %q", weeksType)
}

// Valid reports whether the window is one of the supported sizes.
func (w WindowMonths) Valid() bool {
	return w >= 1 && w <= 3
}

// AverageWeeklySales converts a trailing list of monthly sales totals into a
// weekly rate: average the last `window` entries, divide by 30, multiply
// by 7. When fewer than `window` entries exist the average runs over what is
// available; missing months are never padded with zeros, which would bias
// the rate downward. An empty list yields 0.
func AverageWeeklySales(monthly []float64, window WindowMonths) float64 {
	n := int(window)
	if n <= 0 || len(monthly) == 0 {
		return 0
	}
	if n > len(monthly) {
		n = len(monthly)
	}
	tail := monthly[len(monthly)-n:]
	var sum float64
	for _, v := range tail {
		sum += v
	}
	return sum / float64(len(tail)) / daysPerMonth * daysPerWeek
}

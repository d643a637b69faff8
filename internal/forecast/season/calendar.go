// Package season maps stock to season-relevance buckets for a reference
// month. The merchandising calendar runs two windows: spring-summer (March
// through August) and fall-winter (September through February), with January
// and February belonging to the fall-winter window that started the previous
// September.
package season

import (
	"fmt"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

// tag renders a season tag like "25N" for year-suffix 25 and letter 'N'.
// Suffixes wrap at 100 so the rule survives a century boundary.
func tag(yearSuffix int, letter byte) string {
	return fmt.Sprintf("%02d%c", ((yearSuffix%100)+100)%100, letter)
}

// springWindow reports whether the month falls in the spring-summer
// merchandising window.
func springWindow(month int) bool {
	return month >= 3 && month <= 8
}

// CurrentSeasonTags returns the season tags considered current for the
// given month. The period's own base-year N tag is always a member.
func CurrentSeasonTags(p domain.Period) []string {
	yy := p.Year % 100
	if springWindow(p.Month) {
		return []string{tag(yy, 'N'), tag(yy, 'S')}
	}
	base := yy
	if p.Month < 9 {
		base = yy - 1
	}
	return []string{tag(base, 'N'), tag(base, 'F')}
}

// NextSeasonTags returns the season tags considered upcoming for the given
// month. Always disjoint from CurrentSeasonTags for the same period.
func NextSeasonTags(p domain.Period) []string {
	yy := p.Year % 100
	if springWindow(p.Month) {
		return []string{
			tag(yy, 'F'),
			tag(yy+1, 'N'), tag(yy+1, 'S'), tag(yy+1, 'F'),
			tag(yy+2, 'N'), tag(yy+2, 'S'),
		}
	}
	base := yy
	if p.Month < 9 {
		base = yy - 1
	}
	return []string{
		tag(base+1, 'N'), tag(base+1, 'S'), tag(base+1, 'F'),
		tag(base+2, 'N'), tag(base+2, 'S'),
	}
}

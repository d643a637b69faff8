package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-04")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2025, Month: 4}, p)
	assert.Equal(t, "2025-04", p.String())

	for _, bad := range []string{"", "2025", "2025-13", "2025-00", "abc-04"} {
		_, err := ParsePeriod(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestPeriodAddMonths(t *testing.T) {
	tests := []struct {
		start Period
		n     int
		want  Period
	}{
		{Period{2025, 4}, 1, Period{2025, 5}},
		{Period{2025, 12}, 1, Period{2026, 1}},
		{Period{2025, 1}, -1, Period{2024, 12}},
		{Period{2025, 6}, 6, Period{2025, 12}},
		{Period{2025, 6}, 7, Period{2026, 1}},
		{Period{2025, 3}, -15, Period{2023, 12}},
		{Period{2025, 8}, 0, Period{2025, 8}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.start.AddMonths(tt.n), "%s + %d months", tt.start, tt.n)
	}
}

func TestPeriodSameMonthPriorYear(t *testing.T) {
	assert.Equal(t, Period{2024, 2}, Period{2025, 2}.SameMonthPriorYear())
	assert.Equal(t, Period{2023, 12}, Period{2024, 12}.SameMonthPriorYear())
}

func TestPeriodOrdering(t *testing.T) {
	assert.True(t, Period{2024, 12}.Before(Period{2025, 1}))
	assert.True(t, Period{2025, 2}.After(Period{2025, 1}))
	assert.False(t, Period{2025, 1}.Before(Period{2025, 1}))
}

func TestPeriodTextRoundTrip(t *testing.T) {
	p := Period{Year: 2026, Month: 9}
	text, err := p.MarshalText()
	require.NoError(t, err)

	var back Period
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, p, back)
}

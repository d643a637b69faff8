package domain

// ChartPoint is one month of the dashboard's combined series: actual months
// come straight from the warehouse aggregates, forecast months from the
// simulator.
type ChartPoint struct {
	Period           Period            `json:"period"`
	IsActual         bool              `json:"is_actual"`
	TotalStock       float64           `json:"total_stock"`
	TotalSales       float64           `json:"total_sales"`
	Stock            BucketTotals      `json:"stock"`
	Sales            BucketTotals      `json:"sales"`
	StockWeeks       *float64          `json:"stock_weeks"`
	StockWeeksNormal *float64          `json:"stock_weeks_normal"`
	PriorYear        *PriorYearActuals `json:"prior_year,omitempty"`
}

// ChartData is the full payload behind the weeks-of-inventory chart.
// SkippedPeriods lists forecast months omitted for missing prior-year data.
type ChartData struct {
	Brand          string       `json:"brand"`
	Category       Category     `json:"category"`
	WeeksType      string       `json:"weeks_type"`
	Points         []ChartPoint `json:"points"`
	SkippedPeriods []Period     `json:"skipped_periods,omitempty"`
}

package domain

// StockSnapshot is the monetary ending stock for a (category, period) pair.
// Historical snapshots come from the warehouse; forecast snapshots are
// simulator output. Amounts are tag (list-price) valued.
type StockSnapshot struct {
	Period Period  `json:"period"`
	Amount float64 `json:"amount"`
	Qty    *int64  `json:"qty,omitempty"`
}

// SalesRecord is the tag sales amount for a (category, period) pair.
type SalesRecord struct {
	Period Period  `json:"period"`
	Amount float64 `json:"amount"`
}

// StyleRecord is one style/color line of a period's stock, as supplied by
// the warehouse for season classification.
type StyleRecord struct {
	StyleCode     string     `json:"style_code" db:"prdt_cd"`
	ColorCode     string     `json:"color_code" db:"color_cd"`
	SeasonCode    SeasonCode `json:"season_code" db:"sesn"`
	StockAmount   float64    `json:"stock_amount" db:"end_stock_tag_amt"`
	TrailingSales float64    `json:"trailing_sales" db:"trailing_sale_amt"`
}

// PeriodAggregate is the warehouse's monthly rollup for a brand/category:
// totals, season decompositions of stock and sales, and the actual
// weeks-of-inventory figures computed at aggregation time.
type PeriodAggregate struct {
	Period           Period       `json:"period"`
	TotalStock       float64      `json:"total_stock" db:"total_stock_amt"`
	TotalSales       float64      `json:"total_sales" db:"total_sale_amt"`
	Stock            BucketTotals `json:"stock"`
	Sales            BucketTotals `json:"sales"`
	StockWeeks       *float64     `json:"stock_weeks" db:"stock_weeks"`
	StockWeeksNormal *float64     `json:"stock_weeks_normal" db:"stock_weeks_normal"`
}

// IncomingAmount is one month's expected incoming purchases for a category.
type IncomingAmount struct {
	Period Period  `json:"period"`
	Amount float64 `json:"amount"`
}

// ForecastAssumptions are the caller-supplied inputs to a forecast run.
// Incoming must cover the horizon with one entry per consecutive month;
// a zero amount is valid business input, a missing month is not.
type ForecastAssumptions struct {
	Category        Category         `json:"category"`
	YoYGrowthPct    float64          `json:"yoy_growth_pct"`
	BaseTargetWeeks float64          `json:"base_target_weeks"`
	Incoming        []IncomingAmount `json:"incoming"`
}

// PriorYearActuals carries the same-month prior-year figures attached to a
// forecast period for comparison.
type PriorYearActuals struct {
	Period           Period       `json:"period"`
	TotalStock       float64      `json:"total_stock"`
	TotalSales       float64      `json:"total_sales"`
	Stock            BucketTotals `json:"stock"`
	Sales            BucketTotals `json:"sales"`
	StockWeeks       *float64     `json:"stock_weeks"`
	StockWeeksNormal *float64     `json:"stock_weeks_normal"`
}

// ForecastResult is one projected month.
//
// WeeksOfInventory is nil when the weekly sales rate is zero: "no signal"
// is deliberately distinct from zero, which would read as no inventory risk.
//
// Stock and Sales decompose the projected totals by applying the prior-year
// same-month bucket ratios. The simulator has no per-style forecast detail,
// so this is a ratio carry-forward, not a re-classification.
type ForecastResult struct {
	Period                 Period           `json:"period"`
	ForecastSales          float64          `json:"forecast_sales"`
	EndingInventory        float64          `json:"ending_inventory"`
	WeeksOfInventory       *float64         `json:"weeks_of_inventory"`
	WeeksOfInventoryNormal *float64         `json:"weeks_of_inventory_normal"`
	Stock                  BucketTotals     `json:"stock"`
	Sales                  BucketTotals     `json:"sales"`
	StockYoYPct            float64          `json:"stock_yoy_pct"`
	SalesYoYPct            float64          `json:"sales_yoy_pct"`
	PriorYear              PriorYearActuals `json:"prior_year"`
}

// OrderCapacity is the back-solved purchase budget that keeps a future
// month's stock at the target weeks-of-inventory level. A negative
// OrderCapacity means the projection is already over target and no new
// orders should be placed.
type OrderCapacity struct {
	TargetPeriod    Period  `json:"target_period"`
	BaseTargetWeeks float64 `json:"base_target_weeks"`
	TargetStock     float64 `json:"target_stock"`
	ProjectedStock  float64 `json:"projected_stock"`
	OrderCapacity   float64 `json:"order_capacity"`
	WeeklyAvgSales  float64 `json:"weekly_avg_sales"`
	MonthlyAvgSales float64 `json:"monthly_avg_sales"`
	YoYGrowthPct    float64 `json:"yoy_growth_pct"`
	WindowMonths    int     `json:"window_months"`
}

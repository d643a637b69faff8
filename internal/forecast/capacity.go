package forecast

import (
	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

// solveHorizon is how many forecast months ahead the order-capacity solve
// targets. The merchandising lead time for accessories is roughly four
// months, so the budget question is always "what may I order now to land
// four months out".
const solveHorizon = 4

// Solver back-solves the purchase budget that keeps the target month at the
// base weeks-of-inventory level.
type Solver struct {
	Window WindowMonths
}

// NewSolver builds a solver with the given trailing-average window.
func NewSolver(window WindowMonths) *Solver {
	return &Solver{Window: window}
}

// Solve computes the order capacity from a forecast run. It requires at
// least four forecast periods and returns ErrInsufficientHorizon otherwise.
//
// The weekly average sales rate is recomputed over the first four forecast
// months' sales, honoring the window, so the target stock reflects the
// demand level at the target month rather than today's. A negative result
// means the projection already exceeds target and no new orders should be
// placed.
func (s *Solver) Solve(results []domain.ForecastResult, baseTargetWeeks, yoyGrowthPct float64) (*domain.OrderCapacity, error) {
	if len(results) < solveHorizon {
		return nil, ErrInsufficientHorizon
	}
	if !s.Window.Valid() {
		return nil, &InvalidAssumptionsError{Reason: "window must be 1-3 months"}
	}

	target := results[solveHorizon-1]

	sales := make([]float64, 0, solveHorizon)
	for _, r := range results[:solveHorizon] {
		sales = append(sales, r.ForecastSales)
	}
	weeklyAvg := AverageWeeklySales(sales, s.Window)
	monthlyAvg := weeklyAvg / daysPerWeek * daysPerMonth

	targetStock := baseTargetWeeks * weeklyAvg

	return &domain.OrderCapacity{
		TargetPeriod:    target.Period,
		BaseTargetWeeks: baseTargetWeeks,
		TargetStock:     targetStock,
		ProjectedStock:  target.EndingInventory,
		OrderCapacity:   targetStock - target.EndingInventory,
		WeeklyAvgSales:  weeklyAvg,
		MonthlyAvgSales: monthlyAvg,
		YoYGrowthPct:    yoyGrowthPct,
		WindowMonths:    int(s.Window),
	}, nil
}

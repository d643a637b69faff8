package forecast

import (
	"fmt"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

// Simulator projects ending inventory month by month. A run is strictly
// sequential: each month's ending inventory feeds the next. Independent
// runs share no state and may execute in parallel.
type Simulator struct {
	Window WindowMonths
}

// NewSimulator builds a simulator with the given trailing-average window.
func NewSimulator(window WindowMonths) *Simulator {
	return &Simulator{Window: window}
}

// Projection is the output of one simulation run. Results holds one entry
// per simulated month; months skipped for missing prior-year data appear in
// Gaps instead.
type Projection struct {
	Results []domain.ForecastResult `json:"results"`
	Gaps    []Gap                   `json:"gaps,omitempty"`
}

// Simulate runs the projection over the assumptions' incoming schedule,
// starting from the caller-supplied last actual ending inventory.
//
// Per month: forecast sales are the prior-year same-month sales scaled by
// the YoY growth percentage; ending inventory is prior ending plus incoming
// minus forecast sales, with no floor at zero (a negative projection is a
// valid, alarming output); weeks of inventory divides ending inventory by a
// trailing weekly sales rate blended from forecast months already produced
// and actual history. The season decomposition of each projected month
// applies the prior-year same-month bucket ratios to the new totals; the
// simulator has no per-style forecast detail, so this carries ratios
// forward rather than re-running classification.
//
// A month whose prior-year sales figure is absent is skipped and recorded
// as a Gap; nothing is synthesized in its place.
func (s *Simulator) Simulate(startingInventory float64, history []domain.PeriodAggregate, assumptions domain.ForecastAssumptions) (*Projection, error) {
	if err := validateAssumptions(assumptions); err != nil {
		return nil, err
	}
	if !s.Window.Valid() {
		return nil, &InvalidAssumptionsError{Reason: fmt.Sprintf("window must be 1-3 months, got %d", s.Window)}
	}
	if len(history) == 0 {
		return nil, ErrNoActualData
	}

	actuals := make(map[domain.Period]domain.PeriodAggregate, len(history))
	lastActual := history[0].Period
	for _, agg := range history {
		actuals[agg.Period] = agg
		if agg.Period.After(lastActual) {
			lastActual = agg.Period
		}
	}

	proj := &Projection{Results: make([]domain.ForecastResult, 0, len(assumptions.Incoming))}
	priorEnding := startingInventory
	var salesHistory []float64

	for _, entry := range assumptions.Incoming {
		priorYearPeriod := entry.Period.SameMonthPriorYear()
		priorYear, ok := actuals[priorYearPeriod]
		if !ok {
			proj.Gaps = append(proj.Gaps, Gap{Period: entry.Period, PriorYear: priorYearPeriod})
			continue
		}

		forecastSales := priorYear.TotalSales * (assumptions.YoYGrowthPct / 100)
		salesHistory = append(salesHistory, forecastSales)

		ending := priorEnding + entry.Amount - forecastSales

		weeklyRate := s.trailingWeeklyRate(salesHistory, lastActual, actuals)

		stockRatios := priorYear.Stock.Ratios(priorYear.TotalStock)
		saleRatios := priorYear.Sales.Ratios(priorYear.TotalSales)

		result := domain.ForecastResult{
			Period:          entry.Period,
			ForecastSales:   forecastSales,
			EndingInventory: ending,
			Stock:           stockRatios.Apply(ending),
			Sales:           saleRatios.Apply(forecastSales),
			PriorYear: domain.PriorYearActuals{
				Period:           priorYear.Period,
				TotalStock:       priorYear.TotalStock,
				TotalSales:       priorYear.TotalSales,
				Stock:            priorYear.Stock,
				Sales:            priorYear.Sales,
				StockWeeks:       priorYear.StockWeeks,
				StockWeeksNormal: priorYear.StockWeeksNormal,
			},
		}
		if weeklyRate > 0 {
			weeks := ending / weeklyRate
			result.WeeksOfInventory = &weeks
			weeksNormal := weeks * (1 - stockRatios.Stagnant)
			result.WeeksOfInventoryNormal = &weeksNormal
		}
		if priorYear.TotalStock > 0 {
			result.StockYoYPct = ending / priorYear.TotalStock * 100
		}
		if priorYear.TotalSales > 0 {
			result.SalesYoYPct = forecastSales / priorYear.TotalSales * 100
		}

		proj.Results = append(proj.Results, result)
		priorEnding = ending
	}

	return proj, nil
}

// trailingWeeklyRate builds the rolling window for the month just produced.
// Forecast months computed in this run come first; if the run has not yet
// produced a full window, actual sales are backfilled from the last actual
// month backwards. Months with no sales figure are left out rather than
// padded with zeros.
func (s *Simulator) trailingWeeklyRate(salesHistory []float64, lastActual domain.Period, actuals map[domain.Period]domain.PeriodAggregate) float64 {
	window := int(s.Window)
	if len(salesHistory) >= window {
		return AverageWeeklySales(salesHistory, s.Window)
	}

	missing := window - len(salesHistory)
	combined := make([]float64, 0, window)
	for i := missing - 1; i >= 0; i-- {
		p := lastActual.AddMonths(-i)
		if agg, ok := actuals[p]; ok && agg.TotalSales > 0 {
			combined = append(combined, agg.TotalSales)
		}
	}
	combined = append(combined, salesHistory...)
	return AverageWeeklySales(combined, s.Window)
}

func validateAssumptions(a domain.ForecastAssumptions) error {
	if !a.Category.Valid() {
		return &InvalidAssumptionsError{Reason: fmt.Sprintf("unknown category %q", a.Category)}
	}
	if len(a.Incoming) == 0 {
		return &InvalidAssumptionsError{Reason: "incoming schedule is empty"}
	}
	for i, entry := range a.Incoming {
		if !entry.Period.Valid() {
			return &InvalidAssumptionsError{Reason: fmt.Sprintf("invalid period at schedule index %d", i)}
		}
		if i > 0 {
			if want := a.Incoming[i-1].Period.Next(); entry.Period != want {
				return &InvalidAssumptionsError{
					Reason: fmt.Sprintf("incoming schedule has a gap: %s follows %s, expected %s",
						entry.Period, a.Incoming[i-1].Period, want),
				}
			}
		}
	}
	return nil
}

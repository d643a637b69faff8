package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

func mkAgg(year, month int, stock, sales float64) domain.PeriodAggregate {
	return domain.PeriodAggregate{
		Period:     domain.Period{Year: year, Month: month},
		TotalStock: stock,
		TotalSales: sales,
		Stock:      domain.BucketTotals{Current: stock / 2, Next: stock / 4, Old: stock / 8, Stagnant: stock / 8},
		Sales:      domain.BucketTotals{Current: sales / 2, Next: sales / 4, Old: sales / 4},
	}
}

// A full prior year (2025) plus December as the last actual month, so
// forecasts for 2026 always find their prior-year figures.
func fullHistory(stock, sales float64) []domain.PeriodAggregate {
	var hist []domain.PeriodAggregate
	for m := 1; m <= 12; m++ {
		hist = append(hist, mkAgg(2025, m, stock, sales))
	}
	return hist
}

func schedule(from domain.Period, amounts ...float64) []domain.IncomingAmount {
	out := make([]domain.IncomingAmount, len(amounts))
	p := from
	for i, amt := range amounts {
		out[i] = domain.IncomingAmount{Period: p, Amount: amt}
		p = p.Next()
	}
	return out
}

func TestSimulateConservation(t *testing.T) {
	// incoming = 0 every month, constant prior-year sales S, yoy = 100:
	// ending inventory must fall by exactly S per period.
	const S = 100.0
	sim := NewSimulator(1)
	proj, err := sim.Simulate(1000, fullHistory(800, S), domain.ForecastAssumptions{
		Category:     domain.CategoryShoes,
		YoYGrowthPct: 100,
		Incoming:     schedule(domain.Period{Year: 2026, Month: 1}, 0, 0, 0, 0, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, proj.Results, 6)
	assert.Empty(t, proj.Gaps)

	for i, r := range proj.Results {
		assert.InDelta(t, 1000-float64(i+1)*S, r.EndingInventory, 1e-9, "period %s", r.Period)
		assert.InDelta(t, S, r.ForecastSales, 1e-9)
	}
}

func TestSimulateEndToEndScenario(t *testing.T) {
	sim := NewSimulator(1)
	proj, err := sim.Simulate(1_000_000, fullHistory(900_000, 100_000), domain.ForecastAssumptions{
		Category:     domain.CategoryBag,
		YoYGrowthPct: 110,
		Incoming:     schedule(domain.Period{Year: 2026, Month: 1}, 0),
	})
	require.NoError(t, err)
	require.Len(t, proj.Results, 1)

	r := proj.Results[0]
	assert.InDelta(t, 110_000, r.ForecastSales, 1e-9)
	assert.InDelta(t, 890_000, r.EndingInventory, 1e-9)

	require.NotNil(t, r.WeeksOfInventory)
	// weekly rate = 110,000/30*7 ~ 25,666.7 => ~34.68 weeks
	assert.InDelta(t, 34.68, *r.WeeksOfInventory, 0.01)
}

func TestSimulateSkipsMissingPriorYear(t *testing.T) {
	// Drop March 2025: the March 2026 forecast has no prior-year figure and
	// must be skipped, not fabricated.
	var hist []domain.PeriodAggregate
	for m := 1; m <= 12; m++ {
		if m == 3 {
			continue
		}
		hist = append(hist, mkAgg(2025, m, 800, 100))
	}

	sim := NewSimulator(1)
	proj, err := sim.Simulate(1000, hist, domain.ForecastAssumptions{
		Category:     domain.CategoryHat,
		YoYGrowthPct: 100,
		Incoming:     schedule(domain.Period{Year: 2026, Month: 1}, 0, 0, 0, 0, 0, 0),
	})
	require.NoError(t, err)

	assert.Len(t, proj.Results, 5)
	require.Len(t, proj.Gaps, 1)
	assert.Equal(t, domain.Period{Year: 2026, Month: 3}, proj.Gaps[0].Period)
	assert.Equal(t, domain.Period{Year: 2025, Month: 3}, proj.Gaps[0].PriorYear)

	for _, r := range proj.Results {
		assert.NotEqual(t, domain.Period{Year: 2026, Month: 3}, r.Period)
	}
}

func TestSimulateIncomingRaisesEnding(t *testing.T) {
	sim := NewSimulator(1)
	proj, err := sim.Simulate(1000, fullHistory(800, 100), domain.ForecastAssumptions{
		Category:     domain.CategoryShoes,
		YoYGrowthPct: 100,
		Incoming:     schedule(domain.Period{Year: 2026, Month: 1}, 250, 0),
	})
	require.NoError(t, err)
	require.Len(t, proj.Results, 2)
	assert.InDelta(t, 1000+250-100, proj.Results[0].EndingInventory, 1e-9)
	assert.InDelta(t, 1150-100, proj.Results[1].EndingInventory, 1e-9)
}

func TestSimulateNegativeInventorySurfacedAsIs(t *testing.T) {
	sim := NewSimulator(1)
	proj, err := sim.Simulate(50, fullHistory(800, 100), domain.ForecastAssumptions{
		Category:     domain.CategoryShoes,
		YoYGrowthPct: 100,
		Incoming:     schedule(domain.Period{Year: 2026, Month: 1}, 0),
	})
	require.NoError(t, err)
	assert.InDelta(t, -50, proj.Results[0].EndingInventory, 1e-9)
}

func TestSimulateNoSignalWeeks(t *testing.T) {
	// Zero prior-year sales give a zero weekly rate: weeks of inventory is
	// explicitly absent, never zero.
	sim := NewSimulator(1)
	proj, err := sim.Simulate(1000, fullHistory(800, 0), domain.ForecastAssumptions{
		Category:     domain.CategoryOther,
		YoYGrowthPct: 100,
		Incoming:     schedule(domain.Period{Year: 2026, Month: 1}, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, proj.Results[0].WeeksOfInventory)
}

func TestSimulateBucketDecomposition(t *testing.T) {
	sim := NewSimulator(1)
	proj, err := sim.Simulate(1000, fullHistory(800, 100), domain.ForecastAssumptions{
		Category:     domain.CategoryShoes,
		YoYGrowthPct: 100,
		Incoming:     schedule(domain.Period{Year: 2026, Month: 1}, 0),
	})
	require.NoError(t, err)

	r := proj.Results[0]
	// Prior-year ratios applied to the projected totals reproduce them.
	assert.InDelta(t, r.EndingInventory, r.Stock.Total(), 1e-9)
	assert.InDelta(t, r.ForecastSales, r.Sales.Total(), 1e-9)
	// mkAgg places half the prior-year stock in current.
	assert.InDelta(t, r.EndingInventory/2, r.Stock.Current, 1e-9)
}

func TestSimulateBlendsActualsIntoWindow(t *testing.T) {
	// Window 3 with only one forecast month produced: the rate blends the
	// last two actual months (Nov, Dec) with the forecast month.
	hist := fullHistory(800, 100)
	hist[10].TotalSales = 90  // 2025-11
	hist[11].TotalSales = 120 // 2025-12

	sim := NewSimulator(3)
	proj, err := sim.Simulate(1000, hist, domain.ForecastAssumptions{
		Category:     domain.CategoryShoes,
		YoYGrowthPct: 150,
		Incoming:     schedule(domain.Period{Year: 2026, Month: 1}, 0),
	})
	require.NoError(t, err)

	r := proj.Results[0]
	require.NotNil(t, r.WeeksOfInventory)
	wantRate := (90 + 120 + 150.0) / 3 / 30 * 7
	assert.InDelta(t, r.EndingInventory/wantRate, *r.WeeksOfInventory, 1e-9)
}

func TestSimulateValidation(t *testing.T) {
	sim := NewSimulator(1)
	hist := fullHistory(800, 100)
	jan := domain.Period{Year: 2026, Month: 1}

	var invalid *InvalidAssumptionsError

	_, err := sim.Simulate(1000, hist, domain.ForecastAssumptions{
		Category: "socks",
		Incoming: schedule(jan, 0),
	})
	require.ErrorAs(t, err, &invalid)

	_, err = sim.Simulate(1000, hist, domain.ForecastAssumptions{
		Category: domain.CategoryShoes,
	})
	require.ErrorAs(t, err, &invalid)

	// A hole in the schedule is rejected before simulation starts.
	_, err = sim.Simulate(1000, hist, domain.ForecastAssumptions{
		Category: domain.CategoryShoes,
		Incoming: []domain.IncomingAmount{
			{Period: jan},
			{Period: domain.Period{Year: 2026, Month: 3}},
		},
	})
	require.ErrorAs(t, err, &invalid)

	_, err = sim.Simulate(1000, nil, domain.ForecastAssumptions{
		Category: domain.CategoryShoes,
		Incoming: schedule(jan, 0),
	})
	assert.True(t, errors.Is(err, ErrNoActualData))
}

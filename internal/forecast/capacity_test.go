package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

// Monthly sales that produce a weekly average of 10 under the /30*7
// convention.
const monthlyFor10Weekly = 10.0 / 7 * 30

func solverResults(endingAt4 float64) []domain.ForecastResult {
	results := make([]domain.ForecastResult, 4)
	p := domain.Period{Year: 2026, Month: 1}
	for i := range results {
		results[i] = domain.ForecastResult{
			Period:          p,
			ForecastSales:   monthlyFor10Weekly,
			EndingInventory: endingAt4,
		}
		p = p.Next()
	}
	return results
}

func TestSolveOrderCapacitySign(t *testing.T) {
	solver := NewSolver(1)

	// Under target: budget available.
	oc, err := solver.Solve(solverResults(350), 40, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.Period{Year: 2026, Month: 4}, oc.TargetPeriod)
	assert.InDelta(t, 10, oc.WeeklyAvgSales, 1e-9)
	assert.InDelta(t, 400, oc.TargetStock, 1e-9)
	assert.InDelta(t, 50, oc.OrderCapacity, 1e-9)

	// Over target: negative capacity, no new orders recommended.
	oc, err = solver.Solve(solverResults(450), 40, 100)
	require.NoError(t, err)
	assert.InDelta(t, -50, oc.OrderCapacity, 1e-9)
}

func TestSolveRequiresFourPeriods(t *testing.T) {
	solver := NewSolver(1)
	_, err := solver.Solve(solverResults(350)[:3], 40, 100)
	assert.True(t, errors.Is(err, ErrInsufficientHorizon))
}

func TestSolveHonorsWindow(t *testing.T) {
	results := solverResults(0)
	for i, sales := range []float64{30, 60, 90, 120} {
		results[i].ForecastSales = sales
	}

	solver := NewSolver(2)
	oc, err := solver.Solve(results, 10, 100)
	require.NoError(t, err)

	// Window 2 averages months 3 and 4 of the solve horizon.
	wantWeekly := (90 + 120.0) / 2 / 30 * 7
	assert.InDelta(t, wantWeekly, oc.WeeklyAvgSales, 1e-9)
	assert.InDelta(t, 10*wantWeekly, oc.TargetStock, 1e-9)
	assert.InDelta(t, (90+120.0)/2, oc.MonthlyAvgSales, 1e-9)
}

func TestSolveCarriesInputsThrough(t *testing.T) {
	solver := NewSolver(1)
	oc, err := solver.Solve(solverResults(350), 40, 110)
	require.NoError(t, err)
	assert.InDelta(t, 110, oc.YoYGrowthPct, 1e-9)
	assert.Equal(t, 1, oc.WindowMonths)
	assert.InDelta(t, 350, oc.ProjectedStock, 1e-9)
}

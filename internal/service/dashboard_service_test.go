package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchlab/acc-dashboard/backend-go/internal/config"
	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
	"github.com/merchlab/acc-dashboard/backend-go/internal/forecast"
	"github.com/merchlab/acc-dashboard/backend-go/internal/repository"
)

type fakeWarehouse struct {
	aggregates map[domain.Category][]domain.PeriodAggregate
	incoming   []domain.IncomingAmount
	styles     []domain.StyleRecord
	totalStock float64
}

func (f *fakeWarehouse) GetMonthlyAggregates(_ context.Context, _ string, category domain.Category, from, to domain.Period) ([]domain.PeriodAggregate, error) {
	var out []domain.PeriodAggregate
	for _, agg := range f.aggregates[category] {
		if !agg.Period.Before(from) && !agg.Period.After(to) {
			out = append(out, agg)
		}
	}
	return out, nil
}

func (f *fakeWarehouse) GetStyleRecords(_ context.Context, _ string, _ domain.Category, _ domain.Period) ([]domain.StyleRecord, float64, error) {
	return f.styles, f.totalStock, nil
}

func (f *fakeWarehouse) GetIncomingAmounts(_ context.Context, _ string, _ domain.Category, from, to domain.Period) ([]domain.IncomingAmount, error) {
	var out []domain.IncomingAmount
	for _, entry := range f.incoming {
		if !entry.Period.Before(from) && !entry.Period.After(to) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeWarehouse) GetLatestActualPeriod(_ context.Context, _ string, category domain.Category) (domain.Period, error) {
	aggs := f.aggregates[category]
	if len(aggs) == 0 {
		return domain.Period{}, forecast.ErrNoActualData
	}
	last := aggs[0].Period
	for _, agg := range aggs {
		if agg.Period.After(last) {
			last = agg.Period
		}
	}
	return last, nil
}

var _ repository.WarehouseRepository = (*fakeWarehouse)(nil)

func newFakeWarehouse() *fakeWarehouse {
	f := &fakeWarehouse{aggregates: make(map[domain.Category][]domain.PeriodAggregate)}
	for _, category := range domain.Categories() {
		var aggs []domain.PeriodAggregate
		p := domain.Period{Year: 2024, Month: 1}
		for i := 0; i < 24; i++ {
			aggs = append(aggs, domain.PeriodAggregate{
				Period:     p,
				TotalStock: 1200,
				TotalSales: 100,
				Stock:      domain.BucketTotals{Current: 600, Next: 300, Old: 200, Stagnant: 100},
				Sales:      domain.BucketTotals{Current: 70, Next: 20, Old: 10},
			})
			p = p.Next()
		}
		f.aggregates[category] = aggs
	}
	return f
}

func defaults() config.ForecastConfig {
	return config.ForecastConfig{HorizonMonths: 6, WeeksType: "4weeks"}
}

func TestChartDataReturnsTrailingActuals(t *testing.T) {
	svc := NewDashboardService(newFakeWarehouse(), nil, defaults())

	data, err := svc.ChartData(context.Background(), "M", domain.CategoryShoes, "4weeks")
	require.NoError(t, err)

	require.Len(t, data.Points, 12)
	assert.Equal(t, domain.Period{Year: 2025, Month: 1}, data.Points[0].Period)
	assert.Equal(t, domain.Period{Year: 2025, Month: 12}, data.Points[11].Period)
	for _, pt := range data.Points {
		assert.True(t, pt.IsActual)
	}
}

func TestRunForecastProducesFullHorizon(t *testing.T) {
	svc := NewDashboardService(newFakeWarehouse(), nil, defaults())

	outcome, err := svc.RunForecast(context.Background(), "M", domain.CategoryShoes, ForecastInput{
		YoYGrowthPct:    110,
		BaseTargetWeeks: 40,
		WeeksType:       "4weeks",
	})
	require.NoError(t, err)

	require.Len(t, outcome.Results, 6)
	assert.Empty(t, outcome.Gaps)
	assert.Equal(t, domain.Period{Year: 2026, Month: 1}, outcome.Results[0].Period)

	// Starting from December's 1200 with zero incoming and 110 sales/month.
	assert.InDelta(t, 1200-110, outcome.Results[0].EndingInventory, 1e-9)
	assert.InDelta(t, 1200-6*110, outcome.Results[5].EndingInventory, 1e-9)

	require.NotNil(t, outcome.OrderCapacity)
	assert.Equal(t, domain.Period{Year: 2026, Month: 4}, outcome.OrderCapacity.TargetPeriod)

	// Chart carries 12 actual months plus the 6 forecast months.
	require.NotNil(t, outcome.Chart)
	assert.Len(t, outcome.Chart.Points, 18)
	assert.True(t, outcome.Chart.Points[11].IsActual)
	assert.False(t, outcome.Chart.Points[12].IsActual)
}

func TestRunForecastUsesStoredSchedule(t *testing.T) {
	repo := newFakeWarehouse()
	repo.incoming = []domain.IncomingAmount{
		{Period: domain.Period{Year: 2026, Month: 2}, Amount: 500},
	}
	svc := NewDashboardService(repo, nil, defaults())

	outcome, err := svc.RunForecast(context.Background(), "M", domain.CategoryBag, ForecastInput{
		YoYGrowthPct: 100,
		WeeksType:    "4weeks",
	})
	require.NoError(t, err)

	// January has no stored row and defaults to zero incoming; February's
	// stored 500 lands in the projection.
	assert.InDelta(t, 1200-100, outcome.Results[0].EndingInventory, 1e-9)
	assert.InDelta(t, 1100+500-100, outcome.Results[1].EndingInventory, 1e-9)
}

func TestRunForecastRejectsOutOfHorizonSchedule(t *testing.T) {
	svc := NewDashboardService(newFakeWarehouse(), nil, defaults())

	_, err := svc.RunForecast(context.Background(), "M", domain.CategoryShoes, ForecastInput{
		YoYGrowthPct: 100,
		WeeksType:    "4weeks",
		Incoming: []domain.IncomingAmount{
			{Period: domain.Period{Year: 2027, Month: 1}, Amount: 100},
		},
	})
	var invalid *forecast.InvalidAssumptionsError
	require.ErrorAs(t, err, &invalid)
}

func TestRunForecastShortHorizonSkipsSolve(t *testing.T) {
	svc := NewDashboardService(newFakeWarehouse(), nil, defaults())

	outcome, err := svc.RunForecast(context.Background(), "M", domain.CategoryHat, ForecastInput{
		YoYGrowthPct:  100,
		WeeksType:     "4weeks",
		HorizonMonths: 3,
	})
	require.NoError(t, err)
	assert.Len(t, outcome.Results, 3)
	assert.Nil(t, outcome.OrderCapacity)
}

func TestRunForecastAllCoversEveryCategory(t *testing.T) {
	svc := NewDashboardService(newFakeWarehouse(), nil, defaults())

	outcomes, err := svc.RunForecastAll(context.Background(), "M", ForecastInput{
		YoYGrowthPct:    100,
		BaseTargetWeeks: 40,
		WeeksType:       "4weeks",
	})
	require.NoError(t, err)

	require.Len(t, outcomes, len(domain.Categories()))
	for _, category := range domain.Categories() {
		require.Contains(t, outcomes, category)
		assert.Len(t, outcomes[category].Results, 6)
	}
}

func TestClassifyDelegatesToClassifier(t *testing.T) {
	repo := newFakeWarehouse()
	repo.styles = []domain.StyleRecord{
		{StyleCode: "AK101", SeasonCode: "25N", StockAmount: 700, TrailingSales: 50},
		{StyleCode: "AK104", SeasonCode: "23F", StockAmount: 300, TrailingSales: 0},
	}
	repo.totalStock = 1000
	svc := NewDashboardService(repo, nil, defaults())

	out, err := svc.Classify(context.Background(), "M", domain.CategoryShoes, domain.Period{Year: 2025, Month: 4})
	require.NoError(t, err)

	assert.InDelta(t, 700, out.Buckets.Current, 1e-9)
	assert.InDelta(t, 300, out.Buckets.Stagnant, 1e-9)
	assert.InDelta(t, 1000, out.Buckets.Total(), 1e-9)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/merchlab/acc-dashboard/backend-go/internal/cache"
	"github.com/merchlab/acc-dashboard/backend-go/internal/config"
	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
	"github.com/merchlab/acc-dashboard/backend-go/internal/forecast"
	"github.com/merchlab/acc-dashboard/backend-go/internal/forecast/season"
	"github.com/merchlab/acc-dashboard/backend-go/internal/repository"
)

// actualMonths is how many trailing months of actuals the chart shows.
const actualMonths = 12

// historyMonths is how far back the simulator's history reaches: enough to
// cover prior-year lookups for the longest forecast horizon plus the
// rolling-average backfill.
const historyMonths = 24

// DashboardService serves the weeks-of-inventory dashboard: actual chart
// series, season classification detail, forecast runs and order-capacity
// solves. The engine underneath is pure, so independent runs for different
// categories execute in parallel.
type DashboardService struct {
	repo       repository.WarehouseRepository
	cache      cache.ChartCache
	classifier *season.Classifier
	defaults   config.ForecastConfig
}

func NewDashboardService(repo repository.WarehouseRepository, cacheImpl cache.ChartCache, defaults config.ForecastConfig) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopChartCache()
	}
	return &DashboardService{
		repo:       repo,
		cache:      cacheImpl,
		classifier: &season.Classifier{StagnationRatio: defaults.StagnationRatio},
		defaults:   defaults,
	}
}

// ForecastInput is a forecast request. Incoming may be left empty, in which
// case the stored schedule is used and months without a stored row default
// to zero incoming.
type ForecastInput struct {
	YoYGrowthPct    float64                 `json:"yoy_growth_pct"`
	BaseTargetWeeks float64                 `json:"base_target_weeks"`
	WeeksType       string                  `json:"weeks_type"`
	HorizonMonths   int                     `json:"horizon_months"`
	Incoming        []domain.IncomingAmount `json:"incoming,omitempty"`
}

// ForecastOutcome bundles one category's forecast run.
type ForecastOutcome struct {
	Category      domain.Category         `json:"category"`
	Results       []domain.ForecastResult `json:"results"`
	Gaps          []forecast.Gap          `json:"gaps,omitempty"`
	OrderCapacity *domain.OrderCapacity   `json:"order_capacity,omitempty"`
	Chart         *domain.ChartData       `json:"chart"`
}

// ChartData returns the trailing twelve months of actuals for the chart.
func (s *DashboardService) ChartData(ctx context.Context, brand string, category domain.Category, weeksType string) (*domain.ChartData, error) {
	if _, err := forecast.ParseWindow(weeksType); err != nil {
		return nil, err
	}

	lastActual, err := s.repo.GetLatestActualPeriod(ctx, brand, category)
	if err != nil {
		return nil, err
	}

	key := cache.ChartKey{
		Brand:     brand,
		Category:  category,
		WeeksType: weeksType,
		From:      lastActual.AddMonths(-(actualMonths - 1)),
		To:        lastActual,
	}
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: chart cache get failed")
	}

	aggs, err := s.repo.GetMonthlyAggregates(ctx, brand, category, key.From, key.To)
	if err != nil {
		return nil, err
	}

	data := &domain.ChartData{
		Brand:     brand,
		Category:  category,
		WeeksType: weeksType,
		Points:    make([]domain.ChartPoint, 0, len(aggs)),
	}
	for _, agg := range aggs {
		data.Points = append(data.Points, actualPoint(agg))
	}

	if err := s.cache.Set(ctx, key, data); err != nil {
		log.Warn().Err(err).Msg("dashboard: chart cache set failed")
	}
	return data, nil
}

// Classify returns the season-bucket breakdown of one period's stock, style
// by style.
func (s *DashboardService) Classify(ctx context.Context, brand string, category domain.Category, period domain.Period) (*season.Classification, error) {
	styles, totalStock, err := s.repo.GetStyleRecords(ctx, brand, category, period)
	if err != nil {
		return nil, err
	}
	out := s.classifier.Classify(period, styles, totalStock)
	return &out, nil
}

// RunForecast simulates one category forward and solves its order capacity.
// The returned chart combines the actual series with the forecast months.
func (s *DashboardService) RunForecast(ctx context.Context, brand string, category domain.Category, input ForecastInput) (*ForecastOutcome, error) {
	window, err := forecast.ParseWindow(input.WeeksType)
	if err != nil {
		return nil, &forecast.InvalidAssumptionsError{Reason: err.Error()}
	}

	lastActual, err := s.repo.GetLatestActualPeriod(ctx, brand, category)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.GetMonthlyAggregates(ctx, brand, category,
		lastActual.AddMonths(-(historyMonths-1)), lastActual)
	if err != nil {
		return nil, err
	}

	assumptions, err := s.buildAssumptions(ctx, brand, category, lastActual, input)
	if err != nil {
		return nil, err
	}

	startingInventory, err := latestEndingInventory(history, lastActual)
	if err != nil {
		return nil, err
	}

	sim := forecast.NewSimulator(window)
	proj, err := sim.Simulate(startingInventory, history, assumptions)
	if err != nil {
		return nil, err
	}
	for _, gap := range proj.Gaps {
		log.Warn().
			Str("brand", brand).
			Str("category", string(category)).
			Stringer("period", gap.Period).
			Msg("forecast period skipped: no prior-year sales")
	}

	outcome := &ForecastOutcome{
		Category: category,
		Results:  proj.Results,
		Gaps:     proj.Gaps,
	}

	solver := forecast.NewSolver(window)
	capacity, err := solver.Solve(proj.Results, input.BaseTargetWeeks, input.YoYGrowthPct)
	switch {
	case err == nil:
		outcome.OrderCapacity = capacity
	case errors.Is(err, forecast.ErrInsufficientHorizon):
		// A short horizon (requested or produced by data gaps) just means
		// no solve; the forecast itself still stands.
		log.Warn().
			Str("brand", brand).
			Str("category", string(category)).
			Int("results", len(proj.Results)).
			Msg("order capacity not solved: insufficient forecast horizon")
	default:
		return nil, err
	}

	outcome.Chart = combineChart(brand, category, input.WeeksType, history, lastActual, proj)
	return outcome, nil
}

// RunForecastAll runs RunForecast for each category in parallel. Runs share
// no state; a failure in any category fails the whole call.
func (s *DashboardService) RunForecastAll(ctx context.Context, brand string, input ForecastInput, categories ...domain.Category) (map[domain.Category]*ForecastOutcome, error) {
	if len(categories) == 0 {
		categories = domain.Categories()
	}

	outcomes := make([]*ForecastOutcome, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			outcome, err := s.RunForecast(gctx, brand, category, input)
			if err != nil {
				return fmt.Errorf("category %s: %w", category, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCategory := make(map[domain.Category]*ForecastOutcome, len(categories))
	for i, category := range categories {
		byCategory[category] = outcomes[i]
	}
	return byCategory, nil
}

// IncomingSchedule returns the stored incoming amounts over the forecast
// horizon following the latest actual month, zero-filled per month.
func (s *DashboardService) IncomingSchedule(ctx context.Context, brand string, category domain.Category) ([]domain.IncomingAmount, error) {
	lastActual, err := s.repo.GetLatestActualPeriod(ctx, brand, category)
	if err != nil {
		return nil, err
	}

	horizon := s.defaults.HorizonMonths
	if horizon <= 0 {
		horizon = 6
	}
	from := lastActual.Next()
	to := lastActual.AddMonths(horizon)

	stored, err := s.repo.GetIncomingAmounts(ctx, brand, category, from, to)
	if err != nil {
		return nil, err
	}

	byPeriod := make(map[domain.Period]float64, len(stored))
	for _, entry := range stored {
		byPeriod[entry.Period] = entry.Amount
	}
	schedule := make([]domain.IncomingAmount, 0, horizon)
	for p := from; !p.After(to); p = p.Next() {
		schedule = append(schedule, domain.IncomingAmount{Period: p, Amount: byPeriod[p]})
	}
	return schedule, nil
}

// buildAssumptions assembles and validates the simulation inputs. A caller
// schedule wins over the stored one; either way the schedule is normalized
// to one entry per month over the horizon, zero-filled where nothing is
// scheduled.
func (s *DashboardService) buildAssumptions(ctx context.Context, brand string, category domain.Category, lastActual domain.Period, input ForecastInput) (domain.ForecastAssumptions, error) {
	horizon := input.HorizonMonths
	if horizon <= 0 {
		horizon = s.defaults.HorizonMonths
	}
	if horizon <= 0 {
		horizon = 6
	}

	from := lastActual.Next()
	to := lastActual.AddMonths(horizon)

	scheduled := input.Incoming
	if len(scheduled) == 0 {
		stored, err := s.repo.GetIncomingAmounts(ctx, brand, category, from, to)
		if err != nil {
			return domain.ForecastAssumptions{}, err
		}
		scheduled = stored
	}

	byPeriod := make(map[domain.Period]float64, len(scheduled))
	for _, entry := range scheduled {
		if entry.Period.Before(from) || entry.Period.After(to) {
			return domain.ForecastAssumptions{}, &forecast.InvalidAssumptionsError{
				Reason: fmt.Sprintf("incoming entry %s outside horizon %s..%s", entry.Period, from, to),
			}
		}
		byPeriod[entry.Period] = entry.Amount
	}

	incoming := make([]domain.IncomingAmount, 0, horizon)
	for p := from; !p.After(to); p = p.Next() {
		incoming = append(incoming, domain.IncomingAmount{Period: p, Amount: byPeriod[p]})
	}

	return domain.ForecastAssumptions{
		Category:        category,
		YoYGrowthPct:    input.YoYGrowthPct,
		BaseTargetWeeks: input.BaseTargetWeeks,
		Incoming:        incoming,
	}, nil
}

func latestEndingInventory(history []domain.PeriodAggregate, lastActual domain.Period) (float64, error) {
	for _, agg := range history {
		if agg.Period == lastActual {
			return agg.TotalStock, nil
		}
	}
	return 0, forecast.ErrNoActualData
}

func actualPoint(agg domain.PeriodAggregate) domain.ChartPoint {
	return domain.ChartPoint{
		Period:           agg.Period,
		IsActual:         true,
		TotalStock:       agg.TotalStock,
		TotalSales:       agg.TotalSales,
		Stock:            agg.Stock,
		Sales:            agg.Sales,
		StockWeeks:       agg.StockWeeks,
		StockWeeksNormal: agg.StockWeeksNormal,
	}
}

// combineChart appends forecast points after the trailing actual months.
func combineChart(brand string, category domain.Category, weeksType string, history []domain.PeriodAggregate, lastActual domain.Period, proj *forecast.Projection) *domain.ChartData {
	data := &domain.ChartData{
		Brand:     brand,
		Category:  category,
		WeeksType: weeksType,
	}

	chartFrom := lastActual.AddMonths(-(actualMonths - 1))
	for _, agg := range history {
		if agg.Period.Before(chartFrom) {
			continue
		}
		data.Points = append(data.Points, actualPoint(agg))
	}

	for _, r := range proj.Results {
		priorYear := r.PriorYear
		data.Points = append(data.Points, domain.ChartPoint{
			Period:           r.Period,
			IsActual:         false,
			TotalStock:       r.EndingInventory,
			TotalSales:       r.ForecastSales,
			Stock:            r.Stock,
			Sales:            r.Sales,
			StockWeeks:       r.WeeksOfInventory,
			StockWeeksNormal: r.WeeksOfInventoryNormal,
			PriorYear:        &priorYear,
		})
	}

	for _, gap := range proj.Gaps {
		data.SkippedPeriods = append(data.SkippedPeriods, gap.Period)
	}
	return data
}

package repository

import (
	"context"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

// WarehouseRepository supplies the monthly aggregates the engine consumes.
// The warehouse is already rolled up per brand/category/month by the
// upstream export job; this layer only reads.
type WarehouseRepository interface {
	// GetMonthlyAggregates returns the aggregates for [from, to] in
	// chronological order. Missing months are simply absent from the slice.
	GetMonthlyAggregates(ctx context.Context, brand string, category domain.Category, from, to domain.Period) ([]domain.PeriodAggregate, error)

	// GetStyleRecords returns the period's per-style rows plus the period's
	// total stock, the base for the stagnation threshold.
	GetStyleRecords(ctx context.Context, brand string, category domain.Category, period domain.Period) ([]domain.StyleRecord, float64, error)

	// GetIncomingAmounts returns the expected incoming purchases for
	// [from, to], one entry per month that has a schedule row.
	GetIncomingAmounts(ctx context.Context, brand string, category domain.Category, from, to domain.Period) ([]domain.IncomingAmount, error)

	// GetLatestActualPeriod returns the most recent month with an aggregate.
	GetLatestActualPeriod(ctx context.Context, brand string, category domain.Category) (domain.Period, error)
}

// IncomingScheduleRow is one month of a brand's incoming-amount schedule
// across all categories, as ingested from merchandiser workbooks.
type IncomingScheduleRow struct {
	Period domain.Period
	Shoes  float64
	Hat    float64
	Bag    float64
	Other  float64
}

// Amount returns the row's amount for the given category.
func (r IncomingScheduleRow) Amount(c domain.Category) float64 {
	switch c {
	case domain.CategoryShoes:
		return r.Shoes
	case domain.CategoryHat:
		return r.Hat
	case domain.CategoryBag:
		return r.Bag
	case domain.CategoryOther:
		return r.Other
	}
	return 0
}

// IncomingRepository writes incoming-amount schedules.
type IncomingRepository interface {
	UpsertIncomingAmounts(ctx context.Context, brand string, rows []IncomingScheduleRow) error
}

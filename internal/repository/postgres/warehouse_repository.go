package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
	"github.com/merchlab/acc-dashboard/backend-go/internal/forecast"
	"github.com/merchlab/acc-dashboard/backend-go/internal/repository"
)

// warehouseRepository reads the monthly rollups the warehouse export job
// lands in Postgres. Months are stored as "YYYY-MM" text in month_cd so
// range predicates are plain string comparisons.
type warehouseRepository struct {
	db *sqlx.DB
}

func NewWarehouseRepository(db *sqlx.DB) repository.WarehouseRepository {
	return &warehouseRepository{db: db}
}

type aggregateRow struct {
	MonthCd            string          `db:"month_cd"`
	TotalStockAmt      float64         `db:"total_stock_amt"`
	TotalSaleAmt       float64         `db:"total_sale_amt"`
	CurrentSeasonStock float64         `db:"current_season_stock"`
	NextSeasonStock    float64         `db:"next_season_stock"`
	OldSeasonStock     float64         `db:"old_season_stock"`
	StagnantStock      float64         `db:"stagnant_stock"`
	CurrentSeasonSale  float64         `db:"current_season_sale"`
	NextSeasonSale     float64         `db:"next_season_sale"`
	OldSeasonSale      float64         `db:"old_season_sale"`
	StagnantSale       float64         `db:"stagnant_sale"`
	StockWeeks         sql.NullFloat64 `db:"stock_weeks"`
	StockWeeksNormal   sql.NullFloat64 `db:"stock_weeks_normal"`
}

func (r aggregateRow) toDomain() (domain.PeriodAggregate, error) {
	period, err := domain.ParsePeriod(r.MonthCd)
	if err != nil {
		return domain.PeriodAggregate{}, fmt.Errorf("bad month_cd %q: %w", r.MonthCd, err)
	}
	agg := domain.PeriodAggregate{
		Period:     period,
		TotalStock: r.TotalStockAmt,
		TotalSales: r.TotalSaleAmt,
		Stock: domain.BucketTotals{
			Current:  r.CurrentSeasonStock,
			Next:     r.NextSeasonStock,
			Old:      r.OldSeasonStock,
			Stagnant: r.StagnantStock,
		},
		Sales: domain.BucketTotals{
			Current:  r.CurrentSeasonSale,
			Next:     r.NextSeasonSale,
			Old:      r.OldSeasonSale,
			Stagnant: r.StagnantSale,
		},
	}
	if r.StockWeeks.Valid {
		v := r.StockWeeks.Float64
		agg.StockWeeks = &v
	}
	if r.StockWeeksNormal.Valid {
		v := r.StockWeeksNormal.Float64
		agg.StockWeeksNormal = &v
	}
	return agg, nil
}

func (r *warehouseRepository) GetMonthlyAggregates(ctx context.Context, brand string, category domain.Category, from, to domain.Period) ([]domain.PeriodAggregate, error) {
	query := `
		SELECT
			month_cd,
			total_stock_amt, total_sale_amt,
			current_season_stock, next_season_stock, old_season_stock, stagnant_stock,
			current_season_sale, next_season_sale, old_season_sale, stagnant_sale,
			stock_weeks, stock_weeks_normal
		FROM monthly_aggregates
		WHERE brand_cd = $1
		  AND item_cat = $2
		  AND month_cd BETWEEN $3 AND $4
		ORDER BY month_cd
	`

	var rows []aggregateRow
	if err := r.db.SelectContext(ctx, &rows, query, brand, string(category), from.String(), to.String()); err != nil {
		return nil, fmt.Errorf("error getting monthly aggregates: %w", err)
	}

	aggs := make([]domain.PeriodAggregate, 0, len(rows))
	for _, row := range rows {
		agg, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	return aggs, nil
}

func (r *warehouseRepository) GetStyleRecords(ctx context.Context, brand string, category domain.Category, period domain.Period) ([]domain.StyleRecord, float64, error) {
	query := `
		SELECT prdt_cd, color_cd, COALESCE(sesn, '') AS sesn,
		       end_stock_tag_amt, trailing_sale_amt
		FROM style_month_snapshots
		WHERE brand_cd = $1
		  AND item_cat = $2
		  AND month_cd = $3
	`

	var styles []domain.StyleRecord
	if err := r.db.SelectContext(ctx, &styles, query, brand, string(category), period.String()); err != nil {
		return nil, 0, fmt.Errorf("error getting style records: %w", err)
	}

	// The stagnation threshold is based on the brand's whole ACC stock for
	// the month, not the selected category's slice of it.
	totalQuery := `
		SELECT COALESCE(SUM(end_stock_tag_amt), 0)
		FROM style_month_snapshots
		WHERE brand_cd = $1
		  AND month_cd = $2
	`
	var totalStock float64
	if err := r.db.GetContext(ctx, &totalStock, totalQuery, brand, period.String()); err != nil {
		return nil, 0, fmt.Errorf("error getting total stock: %w", err)
	}

	return styles, totalStock, nil
}

func (r *warehouseRepository) GetIncomingAmounts(ctx context.Context, brand string, category domain.Category, from, to domain.Period) ([]domain.IncomingAmount, error) {
	column, err := incomingColumn(category)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT month_cd, %s AS amount
		FROM incoming_amounts
		WHERE brand_cd = $1
		  AND month_cd BETWEEN $2 AND $3
		ORDER BY month_cd
	`, column)

	var rows []struct {
		MonthCd string  `db:"month_cd"`
		Amount  float64 `db:"amount"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, brand, from.String(), to.String()); err != nil {
		return nil, fmt.Errorf("error getting incoming amounts: %w", err)
	}

	amounts := make([]domain.IncomingAmount, 0, len(rows))
	for _, row := range rows {
		period, err := domain.ParsePeriod(row.MonthCd)
		if err != nil {
			return nil, fmt.Errorf("bad month_cd %q: %w", row.MonthCd, err)
		}
		amounts = append(amounts, domain.IncomingAmount{Period: period, Amount: row.Amount})
	}
	return amounts, nil
}

func (r *warehouseRepository) GetLatestActualPeriod(ctx context.Context, brand string, category domain.Category) (domain.Period, error) {
	query := `
		SELECT month_cd
		FROM monthly_aggregates
		WHERE brand_cd = $1
		  AND item_cat = $2
		ORDER BY month_cd DESC
		LIMIT 1
	`

	var monthCd string
	if err := r.db.GetContext(ctx, &monthCd, query, brand, string(category)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Period{}, fmt.Errorf("no aggregates for brand %s category %s: %w", brand, category, forecast.ErrNoActualData)
		}
		return domain.Period{}, fmt.Errorf("error getting latest actual period: %w", err)
	}

	return domain.ParsePeriod(monthCd)
}

// incomingColumn maps a category to its schedule column. Categories are a
// closed set, so this never interpolates caller input into SQL.
func incomingColumn(category domain.Category) (string, error) {
	switch category {
	case domain.CategoryShoes:
		return "shoes_amt", nil
	case domain.CategoryHat:
		return "hat_amt", nil
	case domain.CategoryBag:
		return "bag_amt", nil
	case domain.CategoryOther:
		return "other_amt", nil
	}
	return "", fmt.Errorf("unknown category %q", category)
}

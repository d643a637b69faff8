package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/merchlab/acc-dashboard/backend-go/internal/repository"
)

type incomingRepository struct {
	db *sqlx.DB
}

func NewIncomingRepository(db *sqlx.DB) repository.IncomingRepository {
	return &incomingRepository{db: db}
}

// UpsertIncomingAmounts replaces a brand's schedule rows month by month.
// Re-ingesting a workbook overwrites earlier figures for the same months,
// which is the intended behavior for corrected uploads.
func (r *incomingRepository) UpsertIncomingAmounts(ctx context.Context, brand string, rows []repository.IncomingScheduleRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO incoming_amounts (brand_cd, month_cd, shoes_amt, hat_amt, bag_amt, other_amt)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (brand_cd, month_cd) DO UPDATE SET
			shoes_amt = EXCLUDED.shoes_amt,
			hat_amt = EXCLUDED.hat_amt,
			bag_amt = EXCLUDED.bag_amt,
			other_amt = EXCLUDED.other_amt
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, query,
			brand, row.Period.String(), row.Shoes, row.Hat, row.Bag, row.Other); err != nil {
			return fmt.Errorf("error upserting incoming amounts for %s: %w", row.Period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

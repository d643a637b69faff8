package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/merchlab/acc-dashboard/backend-go/internal/config"
	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
	"github.com/merchlab/acc-dashboard/backend-go/internal/storage"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing warehouse extract CSV files",
		Value:   "./data/extracts",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load warehouse extracts into the dashboard database",
		Commands: []*cli.Command{
			{
				Name:  "download",
				Usage: "Download warehouse extract files from object storage",
				Flags: []cli.Flag{
					newDataDirFlag(),
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix to download",
						Value: "extracts/",
					},
				},
				Action: runDownload,
			},
			{
				Name:  "aggregates",
				Usage: "Seed monthly aggregates and style snapshots from CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Action: runAggregates,
			},
			{
				Name:  "incoming",
				Usage: "Seed incoming-amount schedules from CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Action: runIncoming,
			},
			{
				Name:  "all",
				Usage: "Seed aggregates, style snapshots and incoming amounts",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Action: func(c *cli.Context) error {
					if err := runAggregates(c); err != nil {
						return fmt.Errorf("error seeding aggregates: %w", err)
					}
					if err := runIncoming(c); err != nil {
						return fmt.Errorf("error seeding incoming amounts: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runDownload(c *cli.Context) error {
	cfg := config.Load()

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to build storage client: %w", err)
	}

	prefix := c.String("prefix")
	dataDir := c.String("data-dir")

	objects, err := client.ListObjects(c.Context, prefix)
	if err != nil {
		return fmt.Errorf("failed to list objects: %w", err)
	}
	if len(objects) == 0 {
		log.Printf("No objects found under prefix %q", prefix)
		return nil
	}

	for _, object := range objects {
		dest := filepath.Join(dataDir, filepath.Base(object.Key))
		log.Printf("Downloading %s (%d bytes) to %s", object.Key, object.Size, dest)
		if err := client.DownloadObject(c.Context, object.Key, dest); err != nil {
			return fmt.Errorf("failed to download %s: %w", object.Key, err)
		}
	}

	log.Printf("Downloaded %d extract files", len(objects))
	return nil
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func runAggregates(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dataDir := c.String("data-dir")
	if err := seedAggregates(ctx, tx, filepath.Join(dataDir, "monthly_aggregates.csv")); err != nil {
		return fmt.Errorf("failed to seed monthly aggregates: %w", err)
	}
	if err := seedStyleSnapshots(ctx, tx, filepath.Join(dataDir, "style_month_snapshots.csv")); err != nil {
		return fmt.Errorf("failed to seed style snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Aggregate seeding completed successfully!")
	return nil
}

func seedAggregates(ctx context.Context, tx *sql.Tx, filePath string) error {
	log.Printf("Seeding monthly_aggregates from %s\n", filePath)

	const query = `
		INSERT INTO monthly_aggregates (
			brand_cd, item_cat, month_cd,
			total_stock_amt, total_sale_amt,
			current_season_stock, next_season_stock, old_season_stock, stagnant_stock,
			current_season_sale, next_season_sale, old_season_sale, stagnant_sale,
			stock_weeks, stock_weeks_normal
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (brand_cd, item_cat, month_cd) DO UPDATE SET
			total_stock_amt = EXCLUDED.total_stock_amt,
			total_sale_amt = EXCLUDED.total_sale_amt,
			current_season_stock = EXCLUDED.current_season_stock,
			next_season_stock = EXCLUDED.next_season_stock,
			old_season_stock = EXCLUDED.old_season_stock,
			stagnant_stock = EXCLUDED.stagnant_stock,
			current_season_sale = EXCLUDED.current_season_sale,
			next_season_sale = EXCLUDED.next_season_sale,
			old_season_sale = EXCLUDED.old_season_sale,
			stagnant_sale = EXCLUDED.stagnant_sale,
			stock_weeks = EXCLUDED.stock_weeks,
			stock_weeks_normal = EXCLUDED.stock_weeks_normal
	`

	return forEachRecord(filePath, func(get func(string) string, line int) error {
		if _, err := domain.ParsePeriod(get("month_cd")); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := domain.ParseCategory(get("item_cat")); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		_, err := tx.ExecContext(ctx, query,
			get("brand_cd"), get("item_cat"), get("month_cd"),
			mustFloat(get("total_stock_amt")), mustFloat(get("total_sale_amt")),
			mustFloat(get("current_season_stock")), mustFloat(get("next_season_stock")),
			mustFloat(get("old_season_stock")), mustFloat(get("stagnant_stock")),
			mustFloat(get("current_season_sale")), mustFloat(get("next_season_sale")),
			mustFloat(get("old_season_sale")), mustFloat(get("stagnant_sale")),
			nullableFloat(get("stock_weeks")), nullableFloat(get("stock_weeks_normal")),
		)
		if err != nil {
			return fmt.Errorf("line %d: insert failed: %w", line, err)
		}
		return nil
	})
}

func seedStyleSnapshots(ctx context.Context, tx *sql.Tx, filePath string) error {
	log.Printf("Seeding style_month_snapshots from %s\n", filePath)

	const query = `
		INSERT INTO style_month_snapshots (
			brand_cd, item_cat, month_cd,
			prdt_cd, color_cd, sesn,
			end_stock_tag_amt, trailing_sale_amt
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (brand_cd, item_cat, month_cd, prdt_cd, color_cd) DO UPDATE SET
			sesn = EXCLUDED.sesn,
			end_stock_tag_amt = EXCLUDED.end_stock_tag_amt,
			trailing_sale_amt = EXCLUDED.trailing_sale_amt
	`

	return forEachRecord(filePath, func(get func(string) string, line int) error {
		if _, err := domain.ParsePeriod(get("month_cd")); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		_, err := tx.ExecContext(ctx, query,
			get("brand_cd"), get("item_cat"), get("month_cd"),
			get("prdt_cd"), get("color_cd"), get("sesn"),
			mustFloat(get("end_stock_tag_amt")), mustFloat(get("trailing_sale_amt")),
		)
		if err != nil {
			return fmt.Errorf("line %d: insert failed: %w", line, err)
		}
		return nil
	})
}

func runIncoming(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	filePath := filepath.Join(c.String("data-dir"), "incoming_amounts.csv")
	log.Printf("Seeding incoming_amounts from %s\n", filePath)

	const query = `
		INSERT INTO incoming_amounts (
			brand_cd, month_cd, shoes_amt, hat_amt, bag_amt, other_amt
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (brand_cd, month_cd) DO UPDATE SET
			shoes_amt = EXCLUDED.shoes_amt,
			hat_amt = EXCLUDED.hat_amt,
			bag_amt = EXCLUDED.bag_amt,
			other_amt = EXCLUDED.other_amt
	`

	err = forEachRecord(filePath, func(get func(string) string, line int) error {
		if _, err := domain.ParsePeriod(get("month_cd")); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		_, err := tx.ExecContext(ctx, query,
			get("brand_cd"), get("month_cd"),
			mustFloat(get("shoes_amt")), mustFloat(get("hat_amt")),
			mustFloat(get("bag_amt")), mustFloat(get("other_amt")),
		)
		if err != nil {
			return fmt.Errorf("line %d: insert failed: %w", line, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Incoming amount seeding completed successfully!")
	return nil
}

// forEachRecord streams a headered CSV file, handing each record to fn as
// a column-name lookup.
func forEachRecord(filePath string, fn func(get func(string) string, line int) error) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		get := func(col string) string {
			if idx, ok := colIdx[col]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		if err := fn(get, line); err != nil {
			return err
		}
	}

	return nil
}

func mustFloat(value string) float64 {
	if value == "" {
		return 0
	}
	cleaned := strings.ReplaceAll(value, ",", "")
	f, _ := strconv.ParseFloat(cleaned, 64)
	return f
}

func nullableFloat(value string) sql.NullFloat64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

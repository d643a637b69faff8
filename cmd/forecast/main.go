package main

import (
	"context"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"

	"github.com/merchlab/acc-dashboard/backend-go/internal/config"
	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
	"github.com/merchlab/acc-dashboard/backend-go/internal/repository/postgres"
	"github.com/merchlab/acc-dashboard/backend-go/internal/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "forecast",
		Usage: "Run a weeks-of-inventory forecast and write an xlsx report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db-url",
				Usage:    "Database connection string",
				Required: true,
				EnvVars:  []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:     "brand",
				Usage:    "Brand code to forecast",
				Required: true,
			},
			&cli.Float64Flag{
				Name:  "yoy",
				Usage: "Year-over-year sales growth percentage",
				Value: 100,
			},
			&cli.Float64Flag{
				Name:  "target-weeks",
				Usage: "Base target weeks of inventory for the order-capacity solve",
				Value: 40,
			},
			&cli.StringFlag{
				Name:  "weeks-type",
				Usage: "Trailing average window (4weeks, 8weeks or 12weeks)",
				Value: "4weeks",
			},
			&cli.IntFlag{
				Name:  "horizon",
				Usage: "Number of months to forecast",
				Value: 6,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output xlsx path",
				Value: "forecast.xlsx",
			},
		},
		Action: runForecast,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runForecast(c *cli.Context) error {
	db, err := sqlx.Connect("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	cfg := config.Load()
	repo := postgres.NewWarehouseRepository(db)
	svc := service.NewDashboardService(repo, nil, cfg.Forecast)

	input := service.ForecastInput{
		YoYGrowthPct:    c.Float64("yoy"),
		BaseTargetWeeks: c.Float64("target-weeks"),
		WeeksType:       c.String("weeks-type"),
		HorizonMonths:   c.Int("horizon"),
	}

	outcomes, err := svc.RunForecastAll(context.Background(), c.String("brand"), input)
	if err != nil {
		return fmt.Errorf("forecast failed: %w", err)
	}

	outPath := c.String("out")
	if err := writeReport(outPath, c.String("brand"), outcomes); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Printf("Report written to %s", outPath)
	return nil
}

func writeReport(path, brand string, outcomes map[domain.Category]*service.ForecastOutcome) error {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := f.GetSheetName(0)
	if err := f.SetSheetName(summarySheet, "Summary"); err != nil {
		return err
	}

	summaryHeader := []interface{}{
		"Category", "Target Month", "Target Weeks", "Weekly Avg Sales",
		"Target Stock", "Projected Stock", "Order Capacity",
	}
	if err := f.SetSheetRow("Summary", "A1", &summaryHeader); err != nil {
		return err
	}

	row := 2
	for _, category := range domain.Categories() {
		outcome, ok := outcomes[category]
		if !ok {
			continue
		}

		if outcome.OrderCapacity != nil {
			oc := outcome.OrderCapacity
			summaryRow := []interface{}{
				string(category), oc.TargetPeriod.String(), oc.BaseTargetWeeks,
				oc.WeeklyAvgSales, oc.TargetStock, oc.ProjectedStock, oc.OrderCapacity,
			}
			if err := f.SetSheetRow("Summary", fmt.Sprintf("A%d", row), &summaryRow); err != nil {
				return err
			}
			row++
		}

		if err := writeCategorySheet(f, category, outcome); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeCategorySheet(f *excelize.File, category domain.Category, outcome *service.ForecastOutcome) error {
	sheet := string(category)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{
		"Month", "Forecast Sales", "Ending Inventory",
		"Weeks of Inventory", "Weeks of Inventory (normal)",
		"Current Season Stock", "Next Season Stock", "Old Season Stock", "Stagnant Stock",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	weeksCell := func(v *float64) interface{} {
		if v == nil {
			return "no signal"
		}
		return *v
	}
	for i, result := range outcome.Results {
		row := []interface{}{
			result.Period.String(), result.ForecastSales, result.EndingInventory,
			weeksCell(result.WeeksOfInventory), weeksCell(result.WeeksOfInventoryNormal),
			result.Stock.Current, result.Stock.Next, result.Stock.Old, result.Stock.Stagnant,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	for _, gap := range outcome.Gaps {
		log.Printf("%s: skipped %s, no sales recorded for %s", category, gap.Period, gap.PriorYear)
	}

	return nil
}

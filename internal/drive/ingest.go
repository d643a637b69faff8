package drive

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
	"github.com/merchlab/acc-dashboard/backend-go/internal/repository"
)

// IngestService turns a merchandiser's incoming-amount workbook into
// schedule rows. The workbook's first sheet has a header row with a month
// column plus one column per category.
type IngestService struct {
	driveService *Service
	repo         repository.IncomingRepository
}

func NewIngestService(driveService *Service, repo repository.IncomingRepository) *IngestService {
	return &IngestService{
		driveService: driveService,
		repo:         repo,
	}
}

func (s *IngestService) IngestFile(ctx context.Context, brand, fileID string) error {
	var buf bytes.Buffer
	if err := s.driveService.DownloadFile(fileID, &buf); err != nil {
		return fmt.Errorf("download workbook: %w", err)
	}

	rows, err := ParseWorkbook(&buf)
	if err != nil {
		return fmt.Errorf("parse workbook: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("workbook has no schedule rows")
	}

	if err := s.repo.UpsertIncomingAmounts(ctx, brand, rows); err != nil {
		return fmt.Errorf("upsert incoming amounts: %w", err)
	}

	log.Info().
		Str("brand", brand).
		Str("file_id", fileID).
		Int("rows", len(rows)).
		Msg("incoming-amount workbook ingested")
	return nil
}

// ParseWorkbook reads the first sheet of an xlsx workbook into schedule
// rows. Rows whose month cell is empty are skipped; a malformed month
// fails the whole file so a half-ingested schedule never lands.
func ParseWorkbook(r *bytes.Buffer) ([]repository.IncomingScheduleRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	colMap := make(map[string]int)
	for i, col := range records[0] {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	monthIdx, ok := colMap["month"]
	if !ok {
		return nil, fmt.Errorf("missing required column: month")
	}
	for _, category := range domain.Categories() {
		if _, ok := colMap[string(category)]; !ok {
			return nil, fmt.Errorf("missing required column: %s", category)
		}
	}

	cell := func(record []string, idx int) string {
		if idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}
	amount := func(record []string, category domain.Category) (float64, error) {
		val := cell(record, colMap[string(category)])
		if val == "" {
			return 0, nil
		}
		// Workbook exports sometimes carry thousands separators.
		val = strings.ReplaceAll(val, ",", "")
		return strconv.ParseFloat(val, 64)
	}

	var rows []repository.IncomingScheduleRow
	for n, record := range records[1:] {
		monthCell := cell(record, monthIdx)
		if monthCell == "" {
			continue
		}
		period, err := domain.ParsePeriod(monthCell)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad month %q: %w", n+2, monthCell, err)
		}

		row := repository.IncomingScheduleRow{Period: period}
		if row.Shoes, err = amount(record, domain.CategoryShoes); err != nil {
			return nil, fmt.Errorf("row %d: bad shoes amount: %w", n+2, err)
		}
		if row.Hat, err = amount(record, domain.CategoryHat); err != nil {
			return nil, fmt.Errorf("row %d: bad hat amount: %w", n+2, err)
		}
		if row.Bag, err = amount(record, domain.CategoryBag); err != nil {
			return nil, fmt.Errorf("row %d: bad bag amount: %w", n+2, err)
		}
		if row.Other, err = amount(record, domain.CategoryOther); err != nil {
			return nil, fmt.Errorf("row %d: bad other amount: %w", n+2, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

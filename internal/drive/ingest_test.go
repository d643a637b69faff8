package drive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

func workbookBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Month", "Shoes", "Hat", "Bag", "Other"},
		{"2026-01", "10000", "2,500", "", "300"},
		{"", "", "", "", ""},
		{"2026-02", "0", "0", "1200", "0"},
	})

	rows, err := ParseWorkbook(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.Period{Year: 2026, Month: 1}, rows[0].Period)
	assert.InDelta(t, 10000, rows[0].Shoes, 1e-9)
	assert.InDelta(t, 2500, rows[0].Hat, 1e-9)
	assert.InDelta(t, 0, rows[0].Bag, 1e-9)
	assert.InDelta(t, 300, rows[0].Other, 1e-9)

	assert.Equal(t, domain.Period{Year: 2026, Month: 2}, rows[1].Period)
	assert.InDelta(t, 1200, rows[1].Bag, 1e-9)

	assert.InDelta(t, 10000, rows[0].Amount(domain.CategoryShoes), 1e-9)
}

func TestParseWorkbookMissingColumn(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Month", "Shoes", "Hat", "Bag"},
		{"2026-01", "1", "2", "3"},
	})

	_, err := ParseWorkbook(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestParseWorkbookBadMonth(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Month", "Shoes", "Hat", "Bag", "Other"},
		{"Jan 2026", "1", "2", "3", "4"},
	})

	_, err := ParseWorkbook(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad month")
}

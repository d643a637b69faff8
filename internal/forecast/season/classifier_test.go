package season

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

// April 2025: current = {25N, 25S}, next = {25F, 26N, ...}, everything
// earlier is an old-season candidate.
var april2025 = domain.Period{Year: 2025, Month: 4}

func testStyles() []domain.StyleRecord {
	return []domain.StyleRecord{
		{StyleCode: "AK101", SeasonCode: "25N", StockAmount: 400, TrailingSales: 120},
		{StyleCode: "AK102", SeasonCode: "25S", StockAmount: 250, TrailingSales: 80},
		{StyleCode: "AK103", SeasonCode: "25F", StockAmount: 150, TrailingSales: 10},
		{StyleCode: "AK104", SeasonCode: "24F", StockAmount: 120, TrailingSales: 5},
		{StyleCode: "AK105", SeasonCode: "23S", StockAmount: 80, TrailingSales: 0.001},
	}
}

func TestClassifyBuckets(t *testing.T) {
	c := &Classifier{}
	styles := testStyles()
	out := c.Classify(april2025, styles, 1000)

	byStyle := make(map[string]domain.SeasonBucket)
	for _, s := range out.Styles {
		byStyle[s.StyleCode] = s.Bucket
	}

	assert.Equal(t, domain.BucketCurrent, byStyle["AK101"])
	assert.Equal(t, domain.BucketCurrent, byStyle["AK102"])
	assert.Equal(t, domain.BucketNext, byStyle["AK103"])
	// threshold = 1000 * 0.0001 = 0.1: AK104 sells above it, AK105 below.
	assert.Equal(t, domain.BucketOld, byStyle["AK104"])
	assert.Equal(t, domain.BucketStagnant, byStyle["AK105"])
}

// Every style lands in exactly one bucket and the bucket totals sum to the
// styles' total stock.
func TestClassifyPartitionsTotalStock(t *testing.T) {
	c := &Classifier{}
	styles := testStyles()

	var total float64
	for _, s := range styles {
		total += s.StockAmount
	}

	out := c.Classify(april2025, styles, total)
	require.Len(t, out.Styles, len(styles))
	assert.InDelta(t, total, out.Buckets.Total(), 1e-9)
}

// Raising the stagnation ratio can only move old-season stock into the
// stagnant bucket, never out of it.
func TestStagnationThresholdMonotonic(t *testing.T) {
	styles := testStyles()
	ratios := []float64{0.00001, 0.0001, 0.001, 0.01, 0.1}

	var prev float64
	for _, ratio := range ratios {
		c := &Classifier{StagnationRatio: ratio}
		out := c.Classify(april2025, styles, 1000)
		assert.GreaterOrEqual(t, out.Buckets.Stagnant, prev, "ratio %v", ratio)
		prev = out.Buckets.Stagnant
	}
}

func TestZeroTotalStockDisablesStagnation(t *testing.T) {
	c := &Classifier{}
	out := c.Classify(april2025, testStyles(), 0)

	assert.Zero(t, out.Threshold)
	assert.Zero(t, out.Buckets.Stagnant)
}

func TestEmptySeasonCodeIsOldCandidate(t *testing.T) {
	c := &Classifier{}
	styles := []domain.StyleRecord{
		{StyleCode: "AK900", SeasonCode: "", StockAmount: 50, TrailingSales: 0},
		{StyleCode: "AK901", SeasonCode: "  ", StockAmount: 60, TrailingSales: 500},
	}
	out := c.Classify(april2025, styles, 1000)

	assert.Equal(t, domain.BucketStagnant, out.Styles[0].Bucket)
	assert.Equal(t, domain.BucketOld, out.Styles[1].Bucket)
}

// Warehouse season codes can hold several tags ("24F/25S"); one match on
// the current window is enough.
func TestCompoundSeasonCode(t *testing.T) {
	c := &Classifier{}
	styles := []domain.StyleRecord{
		{StyleCode: "AK800", SeasonCode: "24F/25S", StockAmount: 100, TrailingSales: 50},
	}
	out := c.Classify(april2025, styles, 1000)
	assert.Equal(t, domain.BucketCurrent, out.Styles[0].Bucket)
}

func TestDefaultStagnationRatioApplied(t *testing.T) {
	c := &Classifier{}
	out := c.Classify(april2025, nil, 2_000_000)
	assert.InDelta(t, 200, out.Threshold, 1e-9)
}

package season

import (
	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

// DefaultStagnationRatio is the share of a period's total stock below which
// an old-season style's trailing sales mark it stagnant: 0.01% of total
// stock. The legacy warehouse queries hard-coded the 0.0001 multiplier in
// two places, one of them commented "0.1%"; every executable site uses
// 0.0001, so 0.01% is authoritative and the constant lives here once.
const DefaultStagnationRatio = 0.0001

// Classifier assigns styles to season buckets for a reference month.
// The zero value classifies with DefaultStagnationRatio.
type Classifier struct {
	// StagnationRatio overrides DefaultStagnationRatio when positive.
	StagnationRatio float64
}

// ClassifiedStyle is one style with its assigned bucket.
type ClassifiedStyle struct {
	domain.StyleRecord
	Bucket domain.SeasonBucket `json:"bucket"`
}

// Classification is the outcome of classifying one period's stock.
type Classification struct {
	Period     domain.Period       `json:"period"`
	TotalStock float64             `json:"total_stock"`
	Threshold  float64             `json:"threshold"`
	Buckets    domain.BucketTotals `json:"buckets"`
	Styles     []ClassifiedStyle   `json:"styles"`
}

func (c *Classifier) ratio() float64 {
	if c.StagnationRatio > 0 {
		return c.StagnationRatio
	}
	return DefaultStagnationRatio
}

// Classify partitions the period's styles into the four season buckets.
// Every style lands in exactly one bucket, so the bucket totals sum to the
// styles' total stock.
//
// Current and next are decided first from the season calendar. Everything
// else is an old-season candidate and becomes stagnant only when its
// trailing-window sales fall below totalStock x stagnationRatio. With zero
// total stock the threshold is zero and nothing can be stagnant, which is
// intentional: stagnation is meaningless without stock.
func (c *Classifier) Classify(period domain.Period, styles []domain.StyleRecord, totalStock float64) Classification {
	current := CurrentSeasonTags(period)
	next := NextSeasonTags(period)
	threshold := totalStock * c.ratio()

	out := Classification{
		Period:     period,
		TotalStock: totalStock,
		Threshold:  threshold,
		Styles:     make([]ClassifiedStyle, 0, len(styles)),
	}

	for _, s := range styles {
		bucket := classifyOne(s, current, next, threshold)
		out.Buckets.Add(bucket, s.StockAmount)
		out.Styles = append(out.Styles, ClassifiedStyle{StyleRecord: s, Bucket: bucket})
	}

	return out
}

func classifyOne(s domain.StyleRecord, current, next []string, threshold float64) domain.SeasonBucket {
	switch {
	case s.SeasonCode.MatchesAny(current):
		return domain.BucketCurrent
	case s.SeasonCode.MatchesAny(next):
		return domain.BucketNext
	case s.TrailingSales < threshold:
		return domain.BucketStagnant
	default:
		return domain.BucketOld
	}
}

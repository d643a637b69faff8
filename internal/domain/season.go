package domain

import "strings"

// SeasonBucket is the classification of a unit of stock relative to a
// reference month.
type SeasonBucket string

// Season bucket constants.
const (
	// BucketCurrent is stock belonging to the selling season in progress.
	BucketCurrent SeasonBucket = "CURRENT"
	// BucketNext is stock belonging to an upcoming season.
	BucketNext SeasonBucket = "NEXT"
	// BucketOld is past-season stock that still sells above the stagnation
	// threshold.
	BucketOld SeasonBucket = "OLD"
	// BucketStagnant is past-season stock selling below the stagnation
	// threshold.
	BucketStagnant SeasonBucket = "STAGNANT"
)

// SeasonCode is the season tag attached to a style, e.g. "25N" or "26F".
// The warehouse stores free-form values ("25N", "24F/25S", ...), so codes
// are matched by substring against generated tags, never parsed into a
// structured value. This mirrors the LIKE matching the warehouse queries use.
type SeasonCode string

// MatchesAny reports whether the code contains any of the given season tags.
// An empty code matches nothing and therefore falls through to the
// old-season path during classification.
func (c SeasonCode) MatchesAny(tags []string) bool {
	s := string(c)
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, tag := range tags {
		if strings.Contains(s, tag) {
			return true
		}
	}
	return false
}

// BucketTotals is the monetary decomposition of a period's stock across the
// four season buckets. By construction the four amounts sum to the total
// classified stock.
type BucketTotals struct {
	Current  float64 `json:"current" db:"current_season_stock"`
	Next     float64 `json:"next" db:"next_season_stock"`
	Old      float64 `json:"old" db:"old_season_stock"`
	Stagnant float64 `json:"stagnant" db:"stagnant_stock"`
}

// Total returns the sum of the four buckets.
func (b BucketTotals) Total() float64 {
	return b.Current + b.Next + b.Old + b.Stagnant
}

// Get returns the amount held in the given bucket.
func (b BucketTotals) Get(bucket SeasonBucket) float64 {
	switch bucket {
	case BucketCurrent:
		return b.Current
	case BucketNext:
		return b.Next
	case BucketOld:
		return b.Old
	case BucketStagnant:
		return b.Stagnant
	}
	return 0
}

// Add accumulates amount into the given bucket.
func (b *BucketTotals) Add(bucket SeasonBucket, amount float64) {
	switch bucket {
	case BucketCurrent:
		b.Current += amount
	case BucketNext:
		b.Next += amount
	case BucketOld:
		b.Old += amount
	case BucketStagnant:
		b.Stagnant += amount
	}
}

// Ratios returns each bucket's share of total. A zero or negative total
// yields all-zero ratios.
func (b BucketTotals) Ratios(total float64) BucketRatios {
	if total <= 0 {
		return BucketRatios{}
	}
	return BucketRatios{
		Current:  b.Current / total,
		Next:     b.Next / total,
		Old:      b.Old / total,
		Stagnant: b.Stagnant / total,
	}
}

// BucketRatios is a season decomposition expressed as shares of a total.
type BucketRatios struct {
	Current  float64 `json:"current"`
	Next     float64 `json:"next"`
	Old      float64 `json:"old"`
	Stagnant float64 `json:"stagnant"`
}

// Apply scales amount by each ratio, producing a bucket decomposition of
// amount.
func (r BucketRatios) Apply(amount float64) BucketTotals {
	return BucketTotals{
		Current:  amount * r.Current,
		Next:     amount * r.Next,
		Old:      amount * r.Old,
		Stagnant: amount * r.Stagnant,
	}
}

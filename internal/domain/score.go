package domain

import "time"

// IndicatorWeights is the weight table for the cumulative score.
// Theoretical maximum 15+10+10+20+15+10+10+10+5 = 105, clamped at 100.
var IndicatorWeights = map[IndicatorKind]int{
	IndicatorLowCapital:             15,
	IndicatorRecentCompany:          10,
	IndicatorActivityMismatch:       10,
	IndicatorPartnerInManySuppliers: 20,
	IndicatorSharedAddress:          15,
	IndicatorExclusiveBuyer:         10,
	IndicatorNoEmployees:            10,
	IndicatorSuddenGrowth:           10,
	IndicatorHistoricalSanction:     5,
}

// Indicator is one active cumulative-score predicate. Weight comes from
// IndicatorWeights.
type Indicator struct {
	Kind        IndicatorKind
	Weight      int
	Description string
	Evidence    string
}

// ScoreBreakdown is the derived cumulative score. Only active indicators
// appear; inactive predicates leave no trace.
type ScoreBreakdown struct {
	Indicators []Indicator
	ComputedAt time.Time
}

// Total is the clamped sum of active weights.
func (s ScoreBreakdown) Total() int {
	sum := 0
	for _, ind := range s.Indicators {
		sum += ind.Weight
	}
	if sum > 100 {
		return 100
	}
	return sum
}

// Band is the closed-interval risk band for Total.
func (s ScoreBreakdown) Band() RiskBand {
	return BandFor(s.Total())
}

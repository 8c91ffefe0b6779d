package scoring

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/stock-advisor/internal/domain"
)

// Component is a single named factor of the total score: its raw value, its
// 0-10 sub-score, its weight in percentage points, and an optional note.
// Across all active components the weights sum to exactly 100.
type Component struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Note   string  `json:"note,omitempty"`
}

// Result is the final outcome of one evaluation.
type Result struct {
	Ticker         string      `json:"ticker"`
	TotalScore     float64     `json:"total_score"`
	Recommendation string      `json:"recommendation"`
	Components     []Component `json:"components"`
	Explanation    string      `json:"explanation,omitempty"`
	Sector         string      `json:"sector"`
}

// Input carries everything the scorer needs for one evaluation.
type Input struct {
	Ticker          string
	Snapshot        domain.Snapshot
	PredictedReturn float64
	PredictionNote  string
	FitQuality      float64
	Sentiment       *float64 // nil when no sentiment source was available
	SentimentNote   string
}

// Base weights in percentage points; they sum to 100 when sentiment is
// present. When sentiment is absent its weight is redistributed by scaling
// every remaining weight by 100/90 (proportional scaling, not a plain
// re-normalization of the 0-10 scores).
const (
	weightPredictedReturn  = 25.0
	weightSentiment        = 10.0
	weightPERatio          = 10.0
	weightEPS              = 5.0
	weightRevenueGrowth    = 10.0
	weightFreeCashFlow     = 10.0
	weightROE              = 10.0
	weightDebtToEquity     = 5.0
	weightModelAccuracy    = 10.0
	weightSectorResilience = 5.0
)

const sentimentAbsentNote = "Sentiment unavailable; its weight was redistributed proportionally across the remaining factors"

// Scorer combines a forecast, fundamentals, optional sentiment, model
// quality and sector resilience into a weighted 0-100 score with a discrete
// recommendation.
type Scorer struct {
	thresholds Thresholds
	log        zerolog.Logger
}

// NewScorer creates a scorer with the given recommendation thresholds.
func NewScorer(thresholds Thresholds, log zerolog.Logger) *Scorer {
	return &Scorer{
		thresholds: thresholds,
		log:        log.With().Str("component", "scorer").Logger(),
	}
}

// Score produces the evaluation result for a single ticker.
func (s *Scorer) Score(in Input) *Result {
	snap := in.Snapshot

	fcfYield := 0.0
	if snap.MarketCap > 0 {
		fcfYield = snap.FreeCashflow / snap.MarketCap
	}

	components := []Component{
		{
			Name:   "Predicted_Return",
			Value:  in.PredictedReturn,
			Score:  scorePredictedReturn(in.PredictedReturn),
			Weight: weightPredictedReturn,
			Note:   in.PredictionNote,
		},
	}

	if in.Sentiment != nil {
		components = append(components, Component{
			Name:   "Sentiment",
			Value:  *in.Sentiment,
			Score:  clampScore(*in.Sentiment),
			Weight: weightSentiment,
			Note:   in.SentimentNote,
		})
	}

	components = append(components,
		Component{
			Name:   "PE_Ratio",
			Value:  snap.PERatio,
			Score:  scorePERatio(snap.PERatio),
			Weight: weightPERatio,
		},
		Component{
			Name:   "EPS",
			Value:  snap.EPS,
			Score:  clampScore(snap.EPS / 10 * 10),
			Weight: weightEPS,
		},
		Component{
			Name:   "Revenue_Growth",
			Value:  snap.RevenueGrowth,
			Score:  clampScore(snap.RevenueGrowth / 0.25 * 10),
			Weight: weightRevenueGrowth,
		},
		Component{
			Name:   "Free_Cash_Flow",
			Value:  fcfYield,
			Score:  clampScore(fcfYield / 0.08 * 10),
			Weight: weightFreeCashFlow,
		},
		Component{
			Name:   "ROE",
			Value:  snap.ROE,
			Score:  clampScore(snap.ROE / 0.25 * 10),
			Weight: weightROE,
		},
		Component{
			Name:   "Debt_to_Equity",
			Value:  snap.DebtToEquity,
			Score:  scoreDebtToEquity(snap.DebtToEquity),
			Weight: weightDebtToEquity,
		},
		Component{
			Name:   "Model_Accuracy",
			Value:  in.FitQuality,
			Score:  scoreModelAccuracy(in.FitQuality),
			Weight: weightModelAccuracy,
		},
		Component{
			Name:   "Sector_Resilience",
			Value:  SectorResilience(snap.Sector),
			Score:  SectorResilience(snap.Sector),
			Weight: weightSectorResilience,
		},
	)

	explanation := ""
	if in.Sentiment == nil {
		// Proportional redistribution: each remaining weight scaled by
		// 100/(100-10) so the active weights still sum to exactly 100.
		scale := 100.0 / (100.0 - weightSentiment)
		for i := range components {
			components[i].Weight *= scale
		}
		explanation = sentimentAbsentNote
	}

	totalScore := 0.0
	for _, c := range components {
		totalScore += c.Score * c.Weight / 10
	}

	recommendation := s.thresholds.Recommend(totalScore)

	s.log.Debug().
		Str("ticker", in.Ticker).
		Float64("total_score", totalScore).
		Str("recommendation", recommendation).
		Bool("sentiment", in.Sentiment != nil).
		Msg("Scored ticker")

	return &Result{
		Ticker:         in.Ticker,
		TotalScore:     totalScore,
		Recommendation: recommendation,
		Components:     components,
		Explanation:    explanation,
		Sector:         snap.Sector,
	}
}

// scorePredictedReturn maps a forward-return forecast to 0-10. A 20% or
// better forecast saturates the scale; a negative forecast contributes 0,
// never a negative sub-score.
func scorePredictedReturn(predictedReturn float64) float64 {
	return clampScore(predictedReturn / 0.2 * 10)
}

// scorePERatio rewards lower multiples: 0x scores 10, 30x and above score 0.
func scorePERatio(pe float64) float64 {
	return clampScore((30 - pe) / 30 * 10)
}

// scoreDebtToEquity rewards lower leverage against a 2.0 reference ratio.
func scoreDebtToEquity(de float64) float64 {
	return clampScore((2 - de) / 2 * 10)
}

// scoreModelAccuracy clamps fit quality to [0,1] before scaling. The raw
// (possibly negative) value is still reported in the component.
func scoreModelAccuracy(fitQuality float64) float64 {
	return math.Max(0, math.Min(1, fitQuality)) * 10
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(10, score))
}

package scoring

// Recommendation labels mapped from the total score.
const (
	StrongBuy = "Strong Buy"
	Buy       = "Buy"
	Hold      = "Hold"
	Sell      = "Sell"
)

// Thresholds maps a total score (0-100) to a recommendation label.
type Thresholds struct {
	StrongBuy float64
	Buy       float64
	Hold      float64
}

// Two threshold sets are in circulation: older evaluations used 80/50/20 and
// newer ones 75/50/25. They produce different labels for the same score
// (e.g. 78 or 22), so both stay selectable instead of being silently
// unified.
var (
	ModernThresholds = Thresholds{StrongBuy: 75, Buy: 50, Hold: 25}
	LegacyThresholds = Thresholds{StrongBuy: 80, Buy: 50, Hold: 20}
)

// ThresholdsByName returns the threshold set for a configuration name,
// defaulting to the modern set.
func ThresholdsByName(name string) Thresholds {
	if name == "legacy" {
		return LegacyThresholds
	}
	return ModernThresholds
}

// Recommend maps a total score to its recommendation label.
func (t Thresholds) Recommend(totalScore float64) string {
	switch {
	case totalScore > t.StrongBuy:
		return StrongBuy
	case totalScore > t.Buy:
		return Buy
	case totalScore > t.Hold:
		return Hold
	default:
		return Sell
	}
}

package scoring

// DefaultSectorResilience is used for sectors missing from the table.
const DefaultSectorResilience = 5.0

// sectorResilience rates how robustly each sector tends to hold up across
// market cycles, on the common 0-10 sub-score scale.
var sectorResilience = map[string]float64{
	"Technology":             7,
	"Healthcare":             8,
	"Utilities":              9,
	"Consumer Defensive":     8,
	"Financial Services":     6,
	"Energy":                 5,
	"Industrials":            6,
	"Consumer Cyclical":      4,
	"Real Estate":            5,
	"Basic Materials":        5,
	"Communication Services": 6,
}

// SectorResilience looks up the resilience rating for a sector label.
func SectorResilience(sector string) float64 {
	if score, ok := sectorResilience[sector]; ok {
		return score
	}
	return DefaultSectorResilience
}

package domain

import "time"

// Bar represents a single daily OHLCV data point
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	AdjClose float64   `json:"adj_close"`
}

// Snapshot holds fundamental ratios and attributes for a security as of
// fetch time. Every field is always populated: the acquisition layer
// substitutes neutral defaults for metrics the source omits, so downstream
// math never observes a missing value.
type Snapshot struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	PERatio       float64 `json:"pe_ratio"`
	EPS           float64 `json:"eps"`
	RevenueGrowth float64 `json:"revenue_growth"`
	FreeCashflow  float64 `json:"free_cashflow"`
	ROE           float64 `json:"roe"`
	DebtToEquity  float64 `json:"debt_to_equity"`
	MarketCap     float64 `json:"market_cap"`
}

// Default values substituted when the data source omits a metric.
// DebtToEquity defaults to 1.0, a neutral ratio; PERatio to a market-typical
// 20x multiple.
const (
	DefaultPERatio       = 20.0
	DefaultEPS           = 0.0
	DefaultRevenueGrowth = 0.0
	DefaultFreeCashflow  = 0.0
	DefaultROE           = 0.10
	DefaultDebtToEquity  = 1.0
	DefaultSector        = "Unknown"
)

// NewSnapshot creates a structurally complete snapshot for a symbol with
// every metric at its neutral default.
func NewSnapshot(symbol string) Snapshot {
	return Snapshot{
		Symbol:        symbol,
		Name:          symbol,
		Sector:        DefaultSector,
		PERatio:       DefaultPERatio,
		EPS:           DefaultEPS,
		RevenueGrowth: DefaultRevenueGrowth,
		FreeCashflow:  DefaultFreeCashflow,
		ROE:           DefaultROE,
		DebtToEquity:  DefaultDebtToEquity,
	}
}

// Headline is a single news article reference, passed through to the
// presentation layer unmodified.
type Headline struct {
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Published time.Time `json:"published"`
	URL       string    `json:"url"`
}

// Horizons lists the supported forecast horizons in months.
var Horizons = []int{1, 3, 6, 12, 24}

// ValidHorizon reports whether the given horizon (in months) is supported.
func ValidHorizon(months int) bool {
	for _, h := range Horizons {
		if h == months {
			return true
		}
	}
	return false
}

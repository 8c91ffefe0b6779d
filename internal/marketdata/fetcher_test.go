package marketdata

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stock-advisor/internal/domain"
)

// fakeProvider serves canned series per symbol and can fail the first N
// history calls with a configurable error.
type fakeProvider struct {
	series          map[string][]domain.Bar
	snapshots       map[string]domain.Snapshot
	historyCalls    int
	failFirst       int
	failErr         error
	errBySymbol     map[string]error
	fundamentalsErr error
}

func (p *fakeProvider) History(symbol, period string) ([]domain.Bar, error) {
	p.historyCalls++
	if p.historyCalls <= p.failFirst {
		return nil, p.failErr
	}
	if err, ok := p.errBySymbol[symbol]; ok {
		return nil, err
	}
	return p.series[symbol], nil
}

func (p *fakeProvider) Fundamentals(symbol string) (domain.Snapshot, error) {
	if p.fundamentalsErr != nil {
		return domain.Snapshot{}, p.fundamentalsErr
	}
	if snapshot, ok := p.snapshots[symbol]; ok {
		return snapshot, nil
	}
	return domain.NewSnapshot(symbol), nil
}

func makeBars(n int) []domain.Bar {
	bars := make([]domain.Bar, n)
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = domain.Bar{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + float64(i%7),
		}
	}
	return bars
}

func newTestFetcher(provider Provider, maxRetries int) (*Fetcher, *[]time.Duration) {
	fetcher := NewFetcher(provider, NewCache(0), maxRetries, zerolog.Nop())
	sleeps := &[]time.Duration{}
	fetcher.sleep = func(d time.Duration) {
		*sleeps = append(*sleeps, d)
	}
	return fetcher, sleeps
}

func TestFetchCachesTriple(t *testing.T) {
	provider := &fakeProvider{
		series: map[string][]domain.Bar{"ASML.AS": makeBars(300)},
	}
	fetcher, _ := newTestFetcher(provider, 5)

	_, _, _, err := fetcher.Fetch("ASML.AS", "5y")
	require.NoError(t, err)
	callsAfterFirst := provider.historyCalls

	// Second fetch with the identical key must not contact the provider
	bars, snapshot, resolved, err := fetcher.Fetch("ASML.AS", "5y")
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, provider.historyCalls)
	assert.Len(t, bars, 300)
	assert.Equal(t, "ASML.AS", resolved)
	assert.Equal(t, "ASML.AS", snapshot.Symbol)
}

func TestFetchSuffixFallback(t *testing.T) {
	provider := &fakeProvider{
		series: map[string][]domain.Bar{
			"PHIA":    makeBars(100), // short native listing
			"PHIA.AS": makeBars(300), // full Amsterdam listing
		},
	}
	fetcher, _ := newTestFetcher(provider, 5)

	bars, _, resolved, err := fetcher.Fetch("PHIA", "5y")
	require.NoError(t, err)
	assert.Equal(t, "PHIA.AS", resolved)
	assert.Len(t, bars, 300)
}

func TestFetchKeepsOriginalWhenNoSuffixResolves(t *testing.T) {
	provider := &fakeProvider{
		series: map[string][]domain.Bar{"NEWCO": makeBars(80)},
	}
	fetcher, _ := newTestFetcher(provider, 5)

	bars, _, resolved, err := fetcher.Fetch("NEWCO", "5y")
	require.NoError(t, err)
	assert.Equal(t, "NEWCO", resolved)
	assert.Len(t, bars, 80)
}

func TestFetchRateLimitBackoff(t *testing.T) {
	provider := &fakeProvider{
		series:    map[string][]domain.Bar{"ASML.AS": makeBars(300)},
		failFirst: 2,
		failErr:   fmt.Errorf("throttled: %w", ErrRateLimited),
	}
	fetcher, sleeps := newTestFetcher(provider, 5)

	_, _, _, err := fetcher.Fetch("ASML.AS", "5y")
	require.NoError(t, err)

	// Rate limited on attempts 1 and 2: slept 2^0 + 2^1 = 3 seconds total
	require.Len(t, *sleeps, 2)
	assert.Equal(t, time.Second, (*sleeps)[0])
	assert.Equal(t, 2*time.Second, (*sleeps)[1])
}

func TestFetchRateLimitedSuffixProbeBacksOff(t *testing.T) {
	// The native listing is short and the Amsterdam probe is throttled.
	// Throttling must not be mistaken for a missing listing: the probe
	// surfaces the rate limit so the retry loop backs off exponentially
	// instead of settling on the short series.
	provider := &fakeProvider{
		series: map[string][]domain.Bar{"PHIA": makeBars(100)},
		errBySymbol: map[string]error{
			"PHIA.AS": fmt.Errorf("throttled: %w", ErrRateLimited),
		},
	}
	fetcher, sleeps := newTestFetcher(provider, 3)

	_, _, _, err := fetcher.Fetch("PHIA", "5y")

	var unavailable *DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, ErrRateLimited)

	// Exponential backoff, not the flat 1s transient sleep
	require.Len(t, *sleeps, 2)
	assert.Equal(t, time.Second, (*sleeps)[0])
	assert.Equal(t, 2*time.Second, (*sleeps)[1])
}

func TestFetchTransientFailureSleepsOneSecond(t *testing.T) {
	provider := &fakeProvider{
		series:    map[string][]domain.Bar{"ASML.AS": makeBars(300)},
		failFirst: 1,
		failErr:   errors.New("connection reset"),
	}
	fetcher, sleeps := newTestFetcher(provider, 5)

	_, _, _, err := fetcher.Fetch("ASML.AS", "5y")
	require.NoError(t, err)
	require.Len(t, *sleeps, 1)
	assert.Equal(t, time.Second, (*sleeps)[0])
}

func TestFetchExhaustionReturnsDataUnavailable(t *testing.T) {
	provider := &fakeProvider{
		failFirst: 1000,
		failErr:   errors.New("connection reset"),
	}
	fetcher, _ := newTestFetcher(provider, 3)

	_, _, _, err := fetcher.Fetch("GONE", "5y")

	var unavailable *DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "GONE", unavailable.Symbol)
	assert.Equal(t, 3, unavailable.Attempts)
	assert.NotEmpty(t, unavailable.Suggestion)
}

func TestFetchEmptySeriesRetriesThenFails(t *testing.T) {
	provider := &fakeProvider{series: map[string][]domain.Bar{}}
	fetcher, sleeps := newTestFetcher(provider, 2)

	_, _, _, err := fetcher.Fetch("EMPTY", "5y")

	var unavailable *DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Len(t, *sleeps, 1)
}

func TestFetchFundamentalsFailureFallsBackToDefaults(t *testing.T) {
	provider := &fakeProvider{
		series:          map[string][]domain.Bar{"ASML.AS": makeBars(300)},
		fundamentalsErr: errors.New("quote endpoint down"),
	}
	fetcher, _ := newTestFetcher(provider, 5)

	_, snapshot, _, err := fetcher.Fetch("ASML.AS", "5y")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPERatio, snapshot.PERatio)
	assert.Equal(t, domain.DefaultDebtToEquity, snapshot.DebtToEquity)
	assert.Equal(t, domain.DefaultSector, snapshot.Sector)
}

func TestStripSuffix(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"ASML.AS", "ASML"},
		{"BMW.DE", "BMW"},
		{"VOD.L", "VOD"},
		{"AAPL", "AAPL"},
		{"BRK.B", "BRK"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, stripSuffix(tt.symbol))
		})
	}
}

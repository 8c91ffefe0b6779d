package marketdata

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stock-advisor/internal/domain"
)

// MinHistoryBars is the minimum series length (one trading year) below which
// the fetcher probes alternative exchange listings.
const MinHistoryBars = 252

// exchangeSuffixes are probed in order when the native listing has too
// little history. Amsterdam, Paris, Frankfurt, London.
var exchangeSuffixes = []string{".AS", ".PA", ".DE", ".L"}

// Provider supplies historical prices and fundamentals for a symbol.
// Implementations must return ErrRateLimited (possibly wrapped) when the
// upstream source is throttling, so the fetcher can back off.
type Provider interface {
	History(symbol, period string) ([]domain.Bar, error)
	Fundamentals(symbol string) (domain.Snapshot, error)
}

// Fetcher acquires price series and fundamental snapshots with retry,
// exchange-suffix fallback and an in-memory cache.
type Fetcher struct {
	provider   Provider
	cache      *Cache
	maxRetries int
	sleep      func(time.Duration)
	log        zerolog.Logger
}

// NewFetcher creates a fetcher. maxRetries < 1 falls back to 5.
func NewFetcher(provider Provider, cache *Cache, maxRetries int, log zerolog.Logger) *Fetcher {
	if maxRetries < 1 {
		maxRetries = 5
	}
	return &Fetcher{
		provider:   provider,
		cache:      cache,
		maxRetries: maxRetries,
		sleep:      time.Sleep,
		log:        log.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch returns the price series, fundamental snapshot and resolved symbol
// for (symbol, period). Cache hits return without contacting the provider.
// On a miss the whole acquisition is wrapped in a bounded retry loop:
// rate-limit responses sleep 2^attempt seconds, other transient failures
// sleep one second, and exhaustion yields a DataUnavailableError.
func (f *Fetcher) Fetch(symbol, period string) ([]domain.Bar, domain.Snapshot, string, error) {
	if bars, snapshot, resolved, ok := f.cache.Get(symbol, period); ok {
		f.log.Debug().Str("symbol", symbol).Str("period", period).Msg("Cache hit")
		return bars, snapshot, resolved, nil
	}

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		bars, snapshot, resolved, err := f.fetchOnce(symbol, period)
		if err == nil {
			f.cache.Put(symbol, period, bars, snapshot, resolved)
			return bars, snapshot, resolved, nil
		}

		lastErr = err
		if attempt == f.maxRetries-1 {
			break
		}

		wait := time.Second
		if errors.Is(err, ErrRateLimited) {
			wait = time.Duration(1<<uint(attempt)) * time.Second
		}
		f.log.Warn().Err(err).
			Str("symbol", symbol).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Msg("Fetch failed, retrying")
		f.sleep(wait)
	}

	return nil, domain.Snapshot{}, "", &DataUnavailableError{
		Symbol:     symbol,
		Attempts:   f.maxRetries,
		Suggestion: "wait a few minutes and retry, or check the symbol's exchange suffix",
		Err:        lastErr,
	}
}

// fetchOnce performs one full acquisition: price history with exchange-suffix
// fallback, then fundamentals for whichever symbol resolved.
func (f *Fetcher) fetchOnce(symbol, period string) ([]domain.Bar, domain.Snapshot, string, error) {
	bars, err := f.provider.History(symbol, period)
	if err != nil {
		return nil, domain.Snapshot{}, "", err
	}

	resolved := symbol
	if len(bars) < MinHistoryBars {
		resolved, bars, err = f.probeSuffixes(symbol, period, bars)
		if err != nil {
			return nil, domain.Snapshot{}, "", err
		}
	}

	if len(bars) == 0 {
		return nil, domain.Snapshot{}, "", errors.New("empty price series")
	}

	if len(bars) < MinHistoryBars {
		f.log.Warn().
			Str("symbol", resolved).
			Int("bars", len(bars)).
			Msg("Limited price history, evaluation confidence will be reduced")
	}

	snapshot, err := f.provider.Fundamentals(resolved)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return nil, domain.Snapshot{}, "", err
		}
		// Fundamentals are optional: fall back to a default snapshot so the
		// pipeline always sees a structurally complete record.
		f.log.Warn().Err(err).Str("symbol", resolved).Msg("Fundamentals unavailable, using defaults")
		snapshot = domain.NewSnapshot(resolved)
	}

	return bars, snapshot, resolved, nil
}

// probeSuffixes tries each exchange-suffix candidate in order until one
// yields at least MinHistoryBars bars. Returns the original symbol and series
// when none does. A rate-limited probe is not a missing listing: it aborts
// the probe sequence and surfaces to the retry loop so backoff engages.
func (f *Fetcher) probeSuffixes(symbol, period string, original []domain.Bar) (string, []domain.Bar, error) {
	base := stripSuffix(symbol)

	for _, suffix := range exchangeSuffixes {
		candidate := base + suffix
		if candidate == symbol {
			continue
		}

		bars, err := f.provider.History(candidate, period)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				return "", nil, err
			}
			f.log.Debug().Err(err).Str("candidate", candidate).Msg("Suffix probe failed")
			continue
		}
		if len(bars) >= MinHistoryBars {
			f.log.Info().
				Str("symbol", symbol).
				Str("resolved", candidate).
				Int("bars", len(bars)).
				Msg("Resolved symbol via exchange suffix")
			return candidate, bars, nil
		}
	}

	return symbol, original, nil
}

// stripSuffix removes an existing .XX / .XXX exchange suffix, if any.
func stripSuffix(symbol string) string {
	if idx := strings.LastIndex(symbol, "."); idx > 0 {
		tail := symbol[idx+1:]
		if len(tail) >= 1 && len(tail) <= 3 {
			return symbol[:idx]
		}
	}
	return symbol
}

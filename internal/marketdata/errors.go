package marketdata

import (
	"errors"
	"fmt"
)

// ErrRateLimited signals that the market data provider is throttling
// requests. The fetcher sleeps 2^attempt seconds before retrying.
var ErrRateLimited = errors.New("marketdata: rate limited")

// DataUnavailableError is returned after the retry budget is exhausted
// without a usable response from the provider.
type DataUnavailableError struct {
	Symbol     string
	Attempts   int
	Suggestion string
	Err        error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable for %s after %d attempts: %s", e.Symbol, e.Attempts, e.Suggestion)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

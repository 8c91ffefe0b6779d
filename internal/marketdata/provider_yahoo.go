package marketdata

import (
	"errors"
	"fmt"

	"github.com/aristath/stock-advisor/internal/clients/yahoo"
	"github.com/aristath/stock-advisor/internal/domain"
)

// YahooProvider adapts the Yahoo Finance client to the Provider interface,
// translating its rate-limit sentinel into the package's own.
type YahooProvider struct {
	client *yahoo.Client
}

// NewYahooProvider wraps a Yahoo client as a Provider.
func NewYahooProvider(client *yahoo.Client) *YahooProvider {
	return &YahooProvider{client: client}
}

// History fetches daily bars for the symbol.
func (p *YahooProvider) History(symbol, period string) ([]domain.Bar, error) {
	bars, err := p.client.GetHistoricalPrices(symbol, period)
	if err != nil {
		return nil, translateErr(err)
	}
	return bars, nil
}

// Fundamentals fetches the fundamental snapshot for the symbol.
func (p *YahooProvider) Fundamentals(symbol string) (domain.Snapshot, error) {
	snapshot, err := p.client.GetFundamentals(symbol)
	if err != nil {
		return snapshot, translateErr(err)
	}
	return snapshot, nil
}

func translateErr(err error) error {
	if errors.Is(err, yahoo.ErrRateLimited) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return err
}

package sentiment

import (
	"github.com/rs/zerolog"
)

// Neutral values returned whenever a sentiment signal cannot be produced.
// Callers treat the neutral result the same as any other sentiment value.
const (
	NeutralScore       = 5.0
	NeutralDescription = "no data"
)

// Client produces a sentiment score in [0,10] plus a short description for a
// symbol. The underlying analysis pipeline lives outside this service; this
// client degrades to the neutral default on any failure, so Score never
// returns an error.
type Client struct {
	log zerolog.Logger
}

// NewClient creates a sentiment client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		log: log.With().Str("client", "sentiment").Logger(),
	}
}

// Score returns the sentiment value and description for a symbol.
func (c *Client) Score(symbol string) (float64, string) {
	// No upstream analysis source is wired in this deployment; report the
	// neutral default, which downstream scoring treats as a present value.
	c.log.Debug().Str("symbol", symbol).Msg("No sentiment source configured, using neutral default")
	return NeutralScore, NeutralDescription
}

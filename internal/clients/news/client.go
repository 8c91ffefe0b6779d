package news

import (
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/aristath/stock-advisor/internal/domain"
)

// MaxHeadlines caps how many articles are returned per symbol.
const MaxHeadlines = 5

// Client fetches recent news headlines for a symbol from the Yahoo Finance
// RSS feed. Headlines are passed through to the presentation layer
// unmodified; scoring never consumes them.
type Client struct {
	parser  *gofeed.Parser
	feedURL string
	log     zerolog.Logger
}

// NewClient creates a news client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		parser:  gofeed.NewParser(),
		feedURL: "https://feeds.finance.yahoo.com/rss/2.0/headline",
		log:     log.With().Str("client", "news").Logger(),
	}
}

// Headlines returns up to MaxHeadlines recent articles for the symbol.
// An empty slice means none were found.
func (c *Client) Headlines(symbol string) ([]domain.Headline, error) {
	params := url.Values{}
	params.Add("s", symbol)
	params.Add("region", "US")
	params.Add("lang", "en-US")

	feed, err := c.parser.ParseURL(c.feedURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news feed for %s: %w", symbol, err)
	}

	return c.mapItems(feed.Items), nil
}

// mapItems converts feed items to headlines, newest first, capped at
// MaxHeadlines.
func (c *Client) mapItems(items []*gofeed.Item) []domain.Headline {
	headlines := make([]domain.Headline, 0, MaxHeadlines)
	for _, item := range items {
		if len(headlines) == MaxHeadlines {
			break
		}

		published := time.Time{}
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		source := ""
		if item.Author != nil {
			source = item.Author.Name
		}

		headlines = append(headlines, domain.Headline{
			Title:     item.Title,
			Source:    source,
			Published: published,
			URL:       item.Link,
		})
	}
	return headlines
}

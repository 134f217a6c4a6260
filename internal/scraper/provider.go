package scraper

import (
	"net/url"
	"strings"
	"time"

	"github.com/maltedev/county-image-crawler/internal/models"
	"github.com/maltedev/county-image-crawler/internal/parser"
)

// Provider describes how to query one image-search backend.
type Provider struct {
	ID     models.ProviderID
	Settle time.Duration
	Chain  parser.Chain
	search string
}

// SearchURL builds the results page URL for query.
func (p Provider) SearchURL(query string) string {
	return strings.Replace(p.search, "{q}", encodeComponent(query), 1)
}

// DefaultProviders returns the Bing and DuckDuckGo definitions.
func DefaultProviders() map[models.ProviderID]Provider {
	return map[models.ProviderID]Provider{
		models.ProviderPrimary: {
			ID:     models.ProviderPrimary,
			Settle: 1000 * time.Millisecond,
			Chain:  parser.BingChain(),
			search: "https://cn.bing.com/images/search?q={q}&first=1",
		},
		models.ProviderSecondary: {
			ID:     models.ProviderSecondary,
			Settle: 1500 * time.Millisecond,
			Chain:  parser.DuckDuckGoChain(),
			search: "https://duckduckgo.com/?q={q}&iax=images&ia=images",
		},
	}
}

// encodeComponent percent-encodes like a URI component, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

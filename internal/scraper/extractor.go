package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/county-image-crawler/internal/models"
)

// Extractor renders provider result pages through one shared Renderer and
// applies the provider's heuristic chain.
type Extractor struct {
	renderer  Renderer
	providers map[models.ProviderID]Provider
	logger    *slog.Logger
}

func NewExtractor(renderer Renderer, providers map[models.ProviderID]Provider, logger *slog.Logger) *Extractor {
	if providers == nil {
		providers = DefaultProviders()
	}
	return &Extractor{
		renderer:  renderer,
		providers: providers,
		logger:    logger.With("component", "extractor"),
	}
}

// FirstImageURL returns the first plausible image for query, or
// ErrNoImageFound when the page carries none.
func (e *Extractor) FirstImageURL(ctx context.Context, id models.ProviderID, query string) (string, error) {
	provider, ok := e.providers[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}

	searchURL := provider.SearchURL(query)
	e.logger.Debug("rendering search page", "provider", id, "url", searchURL)

	snap, err := e.renderer.Render(ctx, searchURL, provider.Settle)
	if err != nil {
		return "", fmt.Errorf("failed to render %s results: %w", id, err)
	}

	pageURL := snap.URL
	if pageURL == "" {
		pageURL = searchURL
	}

	match, found, err := provider.Chain.Extract(snap.HTML, pageURL)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNoImageFound
	}

	e.logger.Debug("image candidate found", "provider", id, "strategy", match.Strategy, "url", match.URL)
	return match.URL, nil
}

package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/maltedev/county-image-crawler/internal/browser"
	"github.com/maltedev/county-image-crawler/internal/models"
)

var (
	// ErrNoImageFound means the page rendered but no heuristic matched. It
	// is an expected outcome that another provider may not share.
	ErrNoImageFound    = errors.New("no image candidate found")
	ErrUnknownProvider = errors.New("unknown image provider")
)

// Renderer loads a page in a scriptable browser and returns its DOM.
type Renderer interface {
	Render(ctx context.Context, url string, settle time.Duration) (*browser.Snapshot, error)
}

// ImageSearcher resolves a query to a direct image URL.
type ImageSearcher interface {
	FirstImageURL(ctx context.Context, provider models.ProviderID, query string) (string, error)
}

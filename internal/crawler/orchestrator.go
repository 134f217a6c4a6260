package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/county-image-crawler/internal/models"
)

// ResultStore loads and saves the persisted ResultSet.
type ResultStore interface {
	Load() (models.ResultSet, error)
	Save(set models.ResultSet) error
	Path() string
}

// MapResolver fetches the shared map asset once per run.
type MapResolver interface {
	Resolve(ctx context.Context) (string, bool)
}

// RunPublisher is notified after the ResultSet has been written.
type RunPublisher interface {
	PublishRun(ctx context.Context, summary *Summary) error
}

type Options struct {
	// Limit truncates the work list to its first entries; 0 keeps all.
	Limit int
	// RetryFailed skips items that already have both images.
	RetryFailed bool
}

// Summary reports what a run did.
type Summary struct {
	RunID      string        `json:"run_id"`
	Items      int           `json:"items"`
	Skipped    int           `json:"skipped"`
	CacheHits  int           `json:"cache_hits"`
	Downloaded int           `json:"downloaded"`
	Exhausted  int           `json:"exhausted"`
	MapAsset   string        `json:"map_asset,omitempty"`
	Output     string        `json:"output"`
	Duration   time.Duration `json:"duration"`
}

// Orchestrator walks the work list sequentially and owns the in-memory
// ResultSet for the run.
type Orchestrator struct {
	opts      Options
	processor ItemProcessor
	results   ResultStore
	mapAsset  MapResolver
	publisher RunPublisher
	logger    *slog.Logger
}

func NewOrchestrator(opts Options, processor ItemProcessor, results ResultStore, mapAsset MapResolver, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		opts:      opts,
		processor: processor,
		results:   results,
		mapAsset:  mapAsset,
		logger:    logger.With("component", "orchestrator"),
	}
}

// WithPublisher attaches an optional run-completed publisher.
func (o *Orchestrator) WithPublisher(p RunPublisher) *Orchestrator {
	o.publisher = p
	return o
}

// Truncate applies the run limit to the work list.
func Truncate(items []models.WorkItem, limit int) []models.WorkItem {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}

// Run processes items and writes the merged ResultSet once at the end. A
// cancelled context stops the run without writing.
func (o *Orchestrator) Run(ctx context.Context, items []models.WorkItem) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.New().String(), Output: o.results.Path()}
	log := o.logger.With("run_id", summary.RunID)

	work := Truncate(items, o.opts.Limit)
	summary.Items = len(work)

	prior := o.loadPrior(log)
	if o.opts.RetryFailed {
		log.Info("retrying failed or missing items only", "need_retry", prior.Missing(work), "items", len(work))
	}
	results := prior.Clone()

	if o.mapAsset != nil {
		if path, ok := o.mapAsset.Resolve(ctx); ok {
			summary.MapAsset = path
		}
	}

	for i, item := range work {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if o.opts.RetryFailed && prior.Complete(item.Name) {
			summary.Skipped++
			continue
		}
		results.Ensure(item.Name)

		for _, cat := range models.Categories() {
			out := o.processor.Process(ctx, Task{Item: item, Category: cat, Index: i, Total: len(work)})
			if out.State == StateCancelled {
				return summary, ctx.Err()
			}

			results.Merge(item.Name, cat, out.Path)
			switch out.State {
			case StateCacheHit:
				summary.CacheHits++
			case StateSuccess:
				summary.Downloaded++
			case StateExhausted:
				summary.Exhausted++
			}
		}
	}

	if err := o.results.Save(results); err != nil {
		return summary, fmt.Errorf("write results: %w", err)
	}
	summary.Duration = time.Since(start)

	log.Info("crawl finished",
		"items", summary.Items,
		"skipped", summary.Skipped,
		"cache_hits", summary.CacheHits,
		"downloaded", summary.Downloaded,
		"exhausted", summary.Exhausted,
		"output", summary.Output,
		"duration", summary.Duration,
	)

	if o.publisher != nil {
		if err := o.publisher.PublishRun(ctx, summary); err != nil {
			log.Warn("failed to publish run event", "error", err)
		}
	}

	return summary, nil
}

// loadPrior reads the previous ResultSet. Anything unreadable counts as empty.
func (o *Orchestrator) loadPrior(log *slog.Logger) models.ResultSet {
	prior, err := o.results.Load()
	switch {
	case err == nil:
		return prior
	case errors.Is(err, os.ErrNotExist):
		log.Info("no previous results found, crawling everything", "path", o.results.Path())
	default:
		log.Warn("previous results unreadable, treating as empty", "path", o.results.Path(), "error", err)
	}
	return models.ResultSet{}
}

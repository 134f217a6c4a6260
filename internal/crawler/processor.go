package crawler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/maltedev/county-image-crawler/internal/downloader"
	"github.com/maltedev/county-image-crawler/internal/metrics"
	"github.com/maltedev/county-image-crawler/internal/models"
	"github.com/maltedev/county-image-crawler/internal/ratelimit"
	"github.com/maltedev/county-image-crawler/internal/scraper"
	"github.com/maltedev/county-image-crawler/internal/storage"
)

// State is a node of the per item/category acquisition state machine.
type State int

const (
	StateCacheCheck State = iota
	StateAttempting
	StateCacheHit
	StateSuccess
	StateExhausted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCacheCheck:
		return "cache_check"
	case StateAttempting:
		return "attempting"
	case StateCacheHit:
		return "cache_hit"
	case StateSuccess:
		return "success"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s >= StateCacheHit
}

// FailureReason records why the last attempt failed.
type FailureReason string

const (
	ReasonNone        FailureReason = ""
	ReasonNoCandidate FailureReason = "no_candidate"
	ReasonTransfer    FailureReason = "transfer"
)

// Task identifies one item/category pair within a run.
type Task struct {
	Item     models.WorkItem
	Category models.Category
	Index    int
	Total    int
}

func (t Task) base() string {
	return models.BaseName(t.Item.Name, t.Index)
}

// Outcome is the terminal result of processing a Task.
type Outcome struct {
	State    State
	Path     string
	Provider models.ProviderID
	Attempts int
	Reason   FailureReason
}

// Fetcher downloads a URL to a local path.
type Fetcher interface {
	Download(ctx context.Context, url, dest string) (int64, error)
}

// ItemProcessor turns a Task into an Outcome.
type ItemProcessor interface {
	Process(ctx context.Context, task Task) Outcome
}

// Processor drives cache check, provider rotation, extraction and download
// for a single item/category pair.
type Processor struct {
	searcher   scraper.ImageSearcher
	fetcher    Fetcher
	cache      *storage.AssetCache
	limiter    ratelimit.RateLimiter
	metrics    *metrics.Metrics
	logger     *slog.Logger
	maxRetries int
	retryMode  bool
}

type ProcessorOptions struct {
	MaxRetries int
	RetryMode  bool
}

func NewProcessor(
	searcher scraper.ImageSearcher,
	fetcher Fetcher,
	cache *storage.AssetCache,
	limiter ratelimit.RateLimiter,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts ProcessorOptions,
) *Processor {
	return &Processor{
		searcher:   searcher,
		fetcher:    fetcher,
		cache:      cache,
		limiter:    limiter,
		metrics:    m,
		logger:     logger.With("component", "processor"),
		maxRetries: max(1, opts.MaxRetries),
		retryMode:  opts.RetryMode,
	}
}

// Process runs the state machine to a terminal state. Failures never escape;
// they are logged and reflected in the Outcome.
func (p *Processor) Process(ctx context.Context, task Task) Outcome {
	log := p.logger.With(
		"item", task.Item.Name,
		"category", task.Category,
		"index", task.Index+1,
		"total", task.Total,
	)

	out := Outcome{State: StateCacheCheck}
	for !out.State.Terminal() {
		switch out.State {
		case StateCacheCheck:
			if path, ok := p.cache.Lookup(task.Category, task.base()); ok {
				out.State, out.Path = StateCacheHit, path
				p.metrics.IncCacheHit(task.Category.String())
				log.Info("using stored image", "path", path)
				continue
			}
			out.State = StateAttempting

		case StateAttempting:
			out.Attempts++
			out.Provider = scraper.ResolveProvider(out.Attempts, p.retryMode)
			path, reason := p.attempt(ctx, task, out.Provider, log.With("attempt", out.Attempts, "provider", out.Provider))
			out.Reason = reason

			// Every network-touching attempt is followed by the pause, including
			// the last one, so the next unit of work starts paced too.
			if err := p.limiter.Wait(ctx); err != nil {
				out.State = StateCancelled
				continue
			}

			switch {
			case reason == ReasonNone:
				out.State, out.Path = StateSuccess, path
			case ctx.Err() != nil:
				out.State = StateCancelled
			case out.Attempts >= p.maxRetries:
				out.State = StateExhausted
				log.Warn("giving up on image", "attempts", out.Attempts, "reason", reason)
			}
		}
	}

	if out.State == StateSuccess {
		out.Reason = ReasonNone
	}
	p.metrics.IncItem(task.Category.String(), out.State.String())
	return out
}

// attempt performs one extract-then-download round against provider.
func (p *Processor) attempt(ctx context.Context, task Task, provider models.ProviderID, log *slog.Logger) (string, FailureReason) {
	imageURL, err := p.searcher.FirstImageURL(ctx, provider, task.Item.Query(task.Category))
	if err != nil {
		if errors.Is(err, scraper.ErrNoImageFound) {
			p.metrics.IncAttempt(provider.String(), string(ReasonNoCandidate))
			log.Warn("no image candidate on results page", "query", task.Item.Query(task.Category))
			return "", ReasonNoCandidate
		}
		p.metrics.IncAttempt(provider.String(), string(ReasonTransfer))
		log.Warn("search page failed", "error", err)
		return "", ReasonTransfer
	}

	filename := task.base() + downloader.ExtensionFor(imageURL)
	start := time.Now()
	n, err := p.fetcher.Download(ctx, imageURL, p.cache.Target(task.Category, filename))
	if err != nil {
		p.metrics.IncAttempt(provider.String(), string(ReasonTransfer))
		log.Warn("image download failed", "url", imageURL, "error", err, "error_type", downloader.ErrorLabel(err))
		return "", ReasonTransfer
	}
	p.metrics.ObserveDownload(time.Since(start))
	p.metrics.IncAttempt(provider.String(), "success")

	path := models.AssetPath(task.Category, filename)
	log.Info("image downloaded", "path", path, "bytes", n, "url", imageURL)
	return path, ReasonNone
}

package crawler

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/maltedev/county-image-crawler/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) FirstImageURL(ctx context.Context, provider models.ProviderID, query string) (string, error) {
	args := m.Called(ctx, provider, query)
	return args.String(0), args.Error(1)
}

// fileFetcher writes a fixed body, or fails with err when set.
type fileFetcher struct {
	mu    sync.Mutex
	calls []string
	errs  []error
}

func (f *fileFetcher) Download(_ context.Context, url, dest string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, url)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return 0, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	return 5, os.WriteFile(dest, []byte("image"), 0o644)
}

// countingLimiter records waits without sleeping.
type countingLimiter struct {
	waits int
}

func (c *countingLimiter) Wait(ctx context.Context) error {
	c.waits++
	return ctx.Err()
}

// recordingProcessor returns canned outcomes and remembers every task.
type recordingProcessor struct {
	tasks   []Task
	outcome func(Task) Outcome
}

func (r *recordingProcessor) Process(_ context.Context, task Task) Outcome {
	r.tasks = append(r.tasks, task)
	if r.outcome == nil {
		return Outcome{State: StateExhausted}
	}
	return r.outcome(task)
}

type memoryResults struct {
	prior   models.ResultSet
	loadErr error
	saved   []models.ResultSet
}

func (m *memoryResults) Load() (models.ResultSet, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.prior.Clone(), nil
}

func (m *memoryResults) Save(set models.ResultSet) error {
	m.saved = append(m.saved, set.Clone())
	return nil
}

func (m *memoryResults) Path() string {
	return "memory"
}

type MockMapResolver struct {
	mock.Mock
}

func (m *MockMapResolver) Resolve(ctx context.Context) (string, bool) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRun(ctx context.Context, summary *Summary) error {
	return m.Called(ctx, summary).Error(0)
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/maltedev/county-image-crawler/internal/crawler"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRedisClient is a mock for Redis client
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd {
	mockArgs := m.Called(ctx, args)
	cmd := redis.NewStringCmd(ctx)
	if mockArgs.Get(0) != nil {
		cmd.SetErr(mockArgs.Error(0))
	} else {
		cmd.SetVal("1234567890-0")
	}
	return cmd
}

func (m *MockRedisClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testSummary() *crawler.Summary {
	return &crawler.Summary{
		RunID:      "run-1",
		Items:      3,
		Skipped:    1,
		CacheHits:  2,
		Downloaded: 1,
		Exhausted:  1,
		Output:     "data/results.json",
		Duration:   1500 * time.Millisecond,
	}
}

func TestPublishRun(t *testing.T) {
	client := new(MockRedisClient)
	client.On("XAdd", mock.Anything, mock.MatchedBy(func(args *redis.XAddArgs) bool {
		values := args.Values.(map[string]interface{})
		if args.Stream != "stream:test" || values["type"] != "IMAGES_CRAWLED" || values["run_id"] != "run-1" {
			return false
		}

		var payload ImagesCrawledPayload
		if err := json.Unmarshal([]byte(values["data"].(string)), &payload); err != nil {
			return false
		}
		return payload.Items == 3 &&
			payload.CacheHits == 2 &&
			payload.DurationMS == 1500 &&
			payload.Output == "data/results.json" &&
			payload.EventID == values["event_id"]
	})).Return(nil).Once()

	p := NewPublisher(client, "stream:test", slog.Default())
	require.NoError(t, p.PublishRun(context.Background(), testSummary()))

	client.AssertExpectations(t)
}

func TestPublishRunDefaultStream(t *testing.T) {
	client := new(MockRedisClient)
	client.On("XAdd", mock.Anything, mock.MatchedBy(func(args *redis.XAddArgs) bool {
		return args.Stream == DefaultStream
	})).Return(nil).Once()

	p := NewPublisher(client, "", slog.Default())
	require.NoError(t, p.PublishRun(context.Background(), testSummary()))

	client.AssertExpectations(t)
}

func TestPublishRunRedisError(t *testing.T) {
	client := new(MockRedisClient)
	client.On("XAdd", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	p := NewPublisher(client, "stream:test", slog.Default())
	err := p.PublishRun(context.Background(), testSummary())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish to redis")
}

func TestPublisherClose(t *testing.T) {
	client := new(MockRedisClient)
	client.On("Close").Return(nil).Once()

	require.NoError(t, NewPublisher(client, "", slog.Default()).Close())
	client.AssertExpectations(t)
}

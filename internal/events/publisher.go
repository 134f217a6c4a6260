package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/county-image-crawler/internal/crawler"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event
type EventType string

const (
	// EventTypeImagesCrawled is published after a run has written its results
	EventTypeImagesCrawled EventType = "IMAGES_CRAWLED"

	DefaultStream = "stream:county_images"
)

// RedisClient interface for Redis operations (for testing)
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// ImagesCrawledPayload is the body of an IMAGES_CRAWLED event
type ImagesCrawledPayload struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id"`
	Items      int       `json:"items"`
	Skipped    int       `json:"skipped"`
	CacheHits  int       `json:"cache_hits"`
	Downloaded int       `json:"downloaded"`
	Exhausted  int       `json:"exhausted"`
	MapAsset   string    `json:"map_asset,omitempty"`
	Output     string    `json:"output"`
	DurationMS int64     `json:"duration_ms"`
	Source     string    `json:"source"`
}

// Publisher writes run events to a Redis stream
type Publisher struct {
	redis  RedisClient
	stream string
	logger *slog.Logger
}

// NewRedisClient connects to addr and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewPublisher creates a publisher for stream. An empty stream uses DefaultStream.
func NewPublisher(client RedisClient, stream string, logger *slog.Logger) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{
		redis:  client,
		stream: stream,
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishRun publishes an IMAGES_CRAWLED event for a finished run.
func (p *Publisher) PublishRun(ctx context.Context, summary *crawler.Summary) error {
	payload := &ImagesCrawledPayload{
		EventID:    uuid.New().String(),
		EventType:  string(EventTypeImagesCrawled),
		Timestamp:  time.Now().UTC(),
		RunID:      summary.RunID,
		Items:      summary.Items,
		Skipped:    summary.Skipped,
		CacheHits:  summary.CacheHits,
		Downloaded: summary.Downloaded,
		Exhausted:  summary.Exhausted,
		MapAsset:   summary.MapAsset,
		Output:     summary.Output,
		DurationMS: summary.Duration.Milliseconds(),
		Source:     "county-image-crawler",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":       string(data),
			"type":       payload.EventType,
			"event_type": payload.EventType,
			"timestamp":  fmt.Sprintf("%d", payload.Timestamp.UnixNano()),
			"event_id":   payload.EventID,
			"run_id":     payload.RunID,
		},
	}

	id, err := p.redis.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}

	p.logger.Info("event published",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"run_id", payload.RunID,
		"stream", p.stream,
		"stream_id", id,
	)
	return nil
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.redis.Close()
}

// Package events publishes domain events to Redis lists for out-of-process
// consumers such as push or email workers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"isave/internal/logger"
)

// NotificationQueue is the Redis list notification events are appended to.
const NotificationQueue = "notification_events"

// Event is the JSON envelope pushed onto a queue.
type Event struct {
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Publisher delivers events to a transport.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// listPusher is the subset of the Redis client the publisher needs.
type listPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisPublisher appends events to a Redis list.
type RedisPublisher struct {
	client listPusher
	queue  string
}

// NewRedisPublisher connects to the Redis server at url (redis://...) and
// returns a publisher for NotificationQueue. An unreachable server is logged
// but not fatal; publishes will fail until it comes back.
func NewRedisPublisher(url string) (*RedisPublisher, *redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Get().Warnw("redis not reachable, notification events will be dropped until it is", "error", err)
	} else {
		logger.Get().Infow("connected to redis", "addr", opt.Addr)
	}

	return newPublisher(client, NotificationQueue), client, nil
}

func newPublisher(client listPusher, queue string) *RedisPublisher {
	return &RedisPublisher{client: client, queue: queue}
}

// Publish serializes event and appends it to the queue.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to redis: %w", err)
	}

	return nil
}

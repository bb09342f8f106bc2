package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LivePublisher pushes committed snapshots onto a Redis pub/sub channel
// for the /live WebSocket relay. Redis is optional: an empty URL or a
// failed ping leaves the publisher disabled and every call a no-op, so
// the pipeline keeps running without it.
type LivePublisher struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

func NewLivePublisher(redisURL, channel string, log *zap.Logger) *LivePublisher {
	p := &LivePublisher{channel: channel, log: log}
	if redisURL == "" {
		return p
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("invalid redis url, live publishing disabled", zap.Error(err))
		return p
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed, live publishing disabled", zap.Error(err))
		_ = client.Close()
		return p
	}

	log.Info("redis connected", zap.String("channel", channel))
	p.client = client
	return p
}

func (p *LivePublisher) Available() bool { return p.client != nil }

func (p *LivePublisher) Publish(ctx context.Context, v any) error {
	if p.client == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// Subscribe returns a subscription on the live channel, or nil when the
// publisher is disabled.
func (p *LivePublisher) Subscribe(ctx context.Context) *redis.PubSub {
	if p.client == nil {
		return nil
	}
	return p.client.Subscribe(ctx, p.channel)
}

func (p *LivePublisher) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

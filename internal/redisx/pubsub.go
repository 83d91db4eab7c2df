package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueuePublisher fans queue state changes out to waiting-room monitors.
type QueuePublisher struct {
	rdb     *redis.Client
	channel string
}

func NewQueuePublisher(rdb *redis.Client) *QueuePublisher {
	return &QueuePublisher{
		rdb:     rdb,
		channel: ChannelQueueEvents(),
	}
}

type queueEventMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	TsUnix  int64           `json:"ts_unix"`
}

func (p *QueuePublisher) Publish(ctx context.Context, eventType string, payload json.RawMessage) error {
	msg := queueEventMsg{
		Type:    eventType,
		Payload: payload,
		TsUnix:  time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *QueuePublisher) Subscribe(ctx context.Context, handler func(ctx context.Context, eventType string, payload json.RawMessage)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev queueEventMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil && ev.Type != "" {
				handler(ctx, ev.Type, ev.Payload)
			}
		}
	}
}

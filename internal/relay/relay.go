package relay

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"officeq/queue-service/internal/store"
)

// EventSource is the slice of the store the relay reads from.
type EventSource interface {
	ListOutboxEvents(ctx context.Context, after int64, limit int) ([]store.OutboxEvent, error)
}

// Publisher pushes queue events to the monitor fan-out channel.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload json.RawMessage) error
}

type Worker struct {
	source    EventSource
	publisher Publisher
	batchSize int
	last      int64
}

type Config struct {
	BatchSize int
}

func New(source EventSource, publisher Publisher, cfg Config) *Worker {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	return &Worker{
		source:    source,
		publisher: publisher,
		batchSize: batch,
	}
}

// Run drains one batch of outbox events past the in-memory sequence
// cursor. A publish failure stops the pass without advancing, so the
// event is retried on the next tick; monitors must tolerate duplicates.
func (w *Worker) Run(ctx context.Context) error {
	events, err := w.source.ListOutboxEvents(ctx, w.last, w.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := w.publisher.Publish(ctx, event.Type, event.Payload); err != nil {
			return err
		}
		w.last = event.Seq
	}
	return nil
}

func Start(ctx context.Context, interval time.Duration, w *Worker) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Run(ctx); err != nil {
				log.Printf("relay error: %v", err)
			}
		}
	}
}

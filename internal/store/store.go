package store

import (
	"context"
	"encoding/json"
	"time"

	"officeq/queue-service/internal/models"
)

type IssueTicketInput struct {
	RequestID   string
	ServiceName string
	IssuedAt    time.Time
}

type CallNextInput struct {
	RequestID string
	CounterID string
	CalledAt  time.Time
}

type FinalizeInput struct {
	RequestID  string
	CounterID  string
	OccurredAt time.Time
}

// Store is the persistence boundary for tickets, queues, and the
// reference data the scheduler consults. Mutating operations are
// idempotent on RequestID; the bool result of IssueTicket and CallNext
// reports whether the call performed new work (false on replay). The
// bool result of the finalize operations reports whether a next ticket
// was assigned after closing out the held one.
type Store interface {
	IssueTicket(ctx context.Context, input IssueTicketInput) (models.Ticket, bool, error)
	CallNext(ctx context.Context, input CallNextInput) (models.Ticket, bool, error)
	FinalizeServed(ctx context.Context, input FinalizeInput) (models.Ticket, bool, error)
	FinalizeNotServed(ctx context.Context, input FinalizeInput) (models.Ticket, bool, error)
	ListWaiting(ctx context.Context) ([]models.Ticket, error)
	HeldTicket(ctx context.Context, counterID string) (models.Ticket, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	ListCounters(ctx context.Context) ([]models.Counter, error)
	UpdateCounterActive(ctx context.Context, counterID string, active bool) error
	ListOutboxEvents(ctx context.Context, after int64, limit int) ([]OutboxEvent, error)
}

// OutboxEvent is a queue state change recorded in the same transaction
// as the change itself, consumed by the monitor relay. Seq is the
// paging cursor; timestamps are not unique enough to page on.
type OutboxEvent struct {
	Seq       int64           `json:"seq"`
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Day truncates t to its UTC date. Waitlist codes and queue membership
// are scoped to this day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

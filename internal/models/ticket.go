package models

import "time"

// Ticket is one customer's place in line for a single service request.
// WaitlistCode is sequential within the issuance day only; TicketID is
// the durable identifier.
type Ticket struct {
	TicketID     string     `json:"ticket_id"`
	ServiceID    string     `json:"service_id"`
	ServiceTag   string     `json:"service_tag,omitempty"`
	WaitlistCode int64      `json:"waitlist_code"`
	Status       string     `json:"status"`
	IssuedAt     time.Time  `json:"issued_at"`
	CounterID    *string    `json:"counter_id,omitempty"`
	ServedAt     *time.Time `json:"served_at,omitempty"`
	RequestID    string     `json:"request_id,omitempty"`
}

const (
	StatusWaiting   = "waiting"
	StatusServed    = "served"
	StatusNotServed = "not_served"
)

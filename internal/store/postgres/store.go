package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"officeq/queue-service/internal/models"
	"officeq/queue-service/internal/scheduler"
	"officeq/queue-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dayFormat = "2006-01-02"

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) IssueTicket(ctx context.Context, input store.IssueTicketInput) (models.Ticket, bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Ticket{}, false, unavailable(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	existing, found, err := findTicketByRequestID(ctx, tx, input.RequestID)
	if err != nil {
		return models.Ticket{}, false, err
	}
	if found {
		if err = tx.Commit(ctx); err != nil {
			return models.Ticket{}, false, err
		}
		return existing, false, nil
	}

	svc, err := getServiceByName(ctx, tx, input.ServiceName)
	if err != nil {
		return models.Ticket{}, false, err
	}

	issuedAt := input.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now().UTC()
	}
	day := store.Day(issuedAt)

	// Serializes code allocation for the day; MAX+1 is race-free under it.
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "issue:"+day.Format(dayFormat)); err != nil {
		return models.Ticket{}, false, err
	}

	var code int64
	row := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(waitlist_code), 0) + 1
		FROM tickets
		WHERE issued_day = $1
	`, day)
	if err = row.Scan(&code); err != nil {
		return models.Ticket{}, false, err
	}

	ticketID := uuid.NewString()
	var ticket models.Ticket
	row = tx.QueryRow(ctx, `
		INSERT INTO tickets (ticket_id, request_id, service_id, waitlist_code, status, issued_at, issued_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (request_id) DO NOTHING
		RETURNING ticket_id, service_id, waitlist_code, status, issued_at, request_id
	`, ticketID, input.RequestID, svc.ServiceID, code, models.StatusWaiting, issuedAt, day)
	if err = row.Scan(&ticket.TicketID, &ticket.ServiceID, &ticket.WaitlistCode, &ticket.Status, &ticket.IssuedAt, &ticket.RequestID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a request_id race to another transaction.
			existing, _, err = findTicketByRequestID(ctx, tx, input.RequestID)
			if err != nil {
				return models.Ticket{}, false, err
			}
			if err = tx.Commit(ctx); err != nil {
				return models.Ticket{}, false, err
			}
			return existing, false, nil
		}
		return models.Ticket{}, false, err
	}
	ticket.ServiceTag = svc.Tag

	tag, err := tx.Exec(ctx, `
		INSERT INTO queue (issued_day, waitlist_code, service_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, day, code, svc.ServiceID)
	if err != nil {
		return models.Ticket{}, false, err
	}
	if tag.RowsAffected() == 0 {
		err = store.ErrDuplicateCode
		return models.Ticket{}, false, err
	}

	if err = insertOutboxEvent(ctx, tx, "ticket.created", ticketPayload(ticket)); err != nil {
		return models.Ticket{}, false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Ticket{}, false, err
	}

	return ticket, true, nil
}

func (s *Store) CallNext(ctx context.Context, input store.CallNextInput) (models.Ticket, bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Ticket{}, false, unavailable(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	existing, found, empty, err := findActionRequest(ctx, tx, "call_next", input.RequestID)
	if err != nil {
		return models.Ticket{}, false, err
	}
	if found {
		if err = tx.Commit(ctx); err != nil {
			return models.Ticket{}, false, err
		}
		if empty {
			return models.Ticket{}, false, store.ErrNoCustomer
		}
		return existing, false, nil
	}

	calledAt := input.CalledAt
	if calledAt.IsZero() {
		calledAt = time.Now().UTC()
	}

	ticket, err := selectNextLocked(ctx, tx, input.CounterID, calledAt)
	if err != nil {
		if errors.Is(err, store.ErrNoCustomer) {
			if err = insertActionRequest(ctx, tx, "call_next", input.RequestID, input.CounterID, ""); err != nil {
				return models.Ticket{}, false, err
			}
			if err = tx.Commit(ctx); err != nil {
				return models.Ticket{}, false, err
			}
			return models.Ticket{}, false, store.ErrNoCustomer
		}
		return models.Ticket{}, false, err
	}

	ticket.RequestID = input.RequestID

	if err = insertActionRequest(ctx, tx, "call_next", input.RequestID, input.CounterID, ticket.TicketID); err != nil {
		return models.Ticket{}, false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Ticket{}, false, err
	}

	return ticket, true, nil
}

func (s *Store) FinalizeServed(ctx context.Context, input store.FinalizeInput) (models.Ticket, bool, error) {
	return s.finalize(ctx, input, "serve", models.StatusServed, "ticket.served")
}

func (s *Store) FinalizeNotServed(ctx context.Context, input store.FinalizeInput) (models.Ticket, bool, error) {
	return s.finalize(ctx, input, "not_serve", models.StatusNotServed, "ticket.not_served")
}

// finalize closes out the counter's held ticket and immediately tries to
// assign the next one, all in one transaction. The close-out commits even
// when no next customer is available.
func (s *Store) finalize(ctx context.Context, input store.FinalizeInput, action, toStatus, eventType string) (models.Ticket, bool, error) {
	if !store.ValidTransition(action, models.StatusWaiting) {
		return models.Ticket{}, false, store.ErrInvalidState
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Ticket{}, false, unavailable(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	existing, found, empty, err := findActionRequest(ctx, tx, action, input.RequestID)
	if err != nil {
		return models.Ticket{}, false, err
	}
	if found {
		if err = tx.Commit(ctx); err != nil {
			return models.Ticket{}, false, err
		}
		if empty {
			return models.Ticket{}, false, nil
		}
		return existing, true, nil
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	var servedAt interface{}
	if toStatus == models.StatusServed {
		servedAt = occurredAt
	}

	var finished models.Ticket
	var counterIDNull sql.NullString
	var servedAtNull sql.NullTime
	row := tx.QueryRow(ctx, `
		UPDATE tickets t
		SET status = $1,
			served_at = $2
		FROM services s
		WHERE s.service_id = t.service_id AND t.counter_id = $3 AND t.status = 'waiting'
		RETURNING t.ticket_id, t.service_id, s.tag, t.waitlist_code, t.status, t.issued_at, t.counter_id, t.served_at
	`, toStatus, servedAt, input.CounterID)
	if err = row.Scan(&finished.TicketID, &finished.ServiceID, &finished.ServiceTag, &finished.WaitlistCode, &finished.Status, &finished.IssuedAt, &counterIDNull, &servedAtNull); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrNoActiveTicket
		}
		return models.Ticket{}, false, err
	}
	finished.CounterID = nullStringPtr(counterIDNull)
	finished.ServedAt = nullTimePtr(servedAtNull)
	finished.RequestID = input.RequestID

	if err = insertOutboxEvent(ctx, tx, eventType, ticketPayload(finished)); err != nil {
		return models.Ticket{}, false, err
	}

	next, err := selectNextLocked(ctx, tx, input.CounterID, occurredAt)
	if err != nil {
		if errors.Is(err, store.ErrNoCustomer) || errors.Is(err, store.ErrCounterInactive) {
			if err = insertActionRequest(ctx, tx, action, input.RequestID, input.CounterID, ""); err != nil {
				return models.Ticket{}, false, err
			}
			if err = tx.Commit(ctx); err != nil {
				return models.Ticket{}, false, err
			}
			return models.Ticket{}, false, nil
		}
		return models.Ticket{}, false, err
	}

	next.RequestID = input.RequestID

	if err = insertActionRequest(ctx, tx, action, input.RequestID, input.CounterID, next.TicketID); err != nil {
		return models.Ticket{}, false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Ticket{}, false, err
	}

	return next, true, nil
}

// selectNextLocked scores the counter's services, dequeues the minimum
// code of the winner, and assigns that ticket to the counter. Callers own
// the transaction; nothing is committed here.
func selectNextLocked(ctx context.Context, tx pgx.Tx, counterID string, calledAt time.Time) (models.Ticket, error) {
	var active bool
	row := tx.QueryRow(ctx, `
		SELECT active
		FROM counters
		WHERE counter_id = $1
		FOR UPDATE
	`, counterID)
	if err := row.Scan(&active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, store.ErrUnknownCounter
		}
		return models.Ticket{}, err
	}
	if !active {
		return models.Ticket{}, store.ErrCounterInactive
	}

	// A counter serves one customer at a time.
	var held bool
	row = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tickets WHERE counter_id = $1 AND status = 'waiting'
		)
	`, counterID)
	if err := row.Scan(&held); err != nil {
		return models.Ticket{}, err
	}
	if held {
		return models.Ticket{}, store.ErrInvalidState
	}

	day := store.Day(calledAt)
	queues, err := loadServiceQueues(ctx, tx, counterID, day)
	if err != nil {
		return models.Ticket{}, err
	}

	serviceID, ok := scheduler.Select(queues)
	if !ok {
		return models.Ticket{}, store.ErrNoCustomer
	}

	code, err := dequeueMinCode(ctx, tx, serviceID, day)
	if err != nil {
		return models.Ticket{}, err
	}

	ticket, err := assignTicket(ctx, tx, serviceID, day, code, counterID)
	if err != nil {
		return models.Ticket{}, err
	}

	if err := insertOutboxEvent(ctx, tx, "ticket.called", ticketPayload(ticket)); err != nil {
		return models.Ticket{}, err
	}

	return ticket, nil
}

// loadServiceQueues returns the counter's services in list order with
// today's queue depth and the share breakdown of the active counters
// handling each one.
func loadServiceQueues(ctx context.Context, tx pgx.Tx, counterID string, day time.Time) ([]scheduler.ServiceQueue, error) {
	rows, err := tx.Query(ctx, `
		SELECT cs.service_id, s.service_time_minutes, COALESCE(q.depth, 0)
		FROM counter_services cs
		JOIN services s ON s.service_id = cs.service_id
		LEFT JOIN (
			SELECT service_id, COUNT(*) AS depth
			FROM queue
			WHERE issued_day = $2
			GROUP BY service_id
		) q ON q.service_id = cs.service_id
		WHERE cs.counter_id = $1
		ORDER BY cs.position ASC
	`, counterID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queues []scheduler.ServiceQueue
	for rows.Next() {
		var queue scheduler.ServiceQueue
		if err := rows.Scan(&queue.ServiceID, &queue.ServiceTime, &queue.QueueLength); err != nil {
			return nil, err
		}
		queues = append(queues, queue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range queues {
		shares, err := loadCounterShares(ctx, tx, queues[i].ServiceID)
		if err != nil {
			return nil, err
		}
		queues[i].Shares = shares
	}
	return queues, nil
}

func loadCounterShares(ctx context.Context, tx pgx.Tx, serviceID string) ([]scheduler.CounterShare, error) {
	rows, err := tx.Query(ctx, `
		SELECT cs.counter_id,
			(SELECT COUNT(*) FROM counter_services x WHERE x.counter_id = cs.counter_id)
		FROM counter_services cs
		JOIN counters c ON c.counter_id = cs.counter_id
		WHERE cs.service_id = $1 AND c.active = TRUE
	`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []scheduler.CounterShare
	for rows.Next() {
		var share scheduler.CounterShare
		if err := rows.Scan(&share.CounterID, &share.ServiceCount); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shares, nil
}

func dequeueMinCode(ctx context.Context, tx pgx.Tx, serviceID string, day time.Time) (int64, error) {
	var code int64
	row := tx.QueryRow(ctx, `
		DELETE FROM queue
		WHERE issued_day = $2 AND waitlist_code = (
			SELECT waitlist_code
			FROM queue
			WHERE service_id = $1 AND issued_day = $2
			ORDER BY waitlist_code ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING waitlist_code
	`, serviceID, day)
	if err := row.Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Drained by a concurrent caller between scoring and dequeue.
			return 0, store.ErrNoCustomer
		}
		return 0, err
	}
	return code, nil
}

func assignTicket(ctx context.Context, tx pgx.Tx, serviceID string, day time.Time, code int64, counterID string) (models.Ticket, error) {
	var ticket models.Ticket
	var counterIDNull sql.NullString
	var servedAtNull sql.NullTime
	row := tx.QueryRow(ctx, `
		UPDATE tickets t
		SET counter_id = $1
		FROM services s
		WHERE s.service_id = t.service_id
			AND t.service_id = $2 AND t.issued_day = $3 AND t.waitlist_code = $4
			AND t.status = 'waiting' AND t.counter_id IS NULL
		RETURNING t.ticket_id, t.service_id, s.tag, t.waitlist_code, t.status, t.issued_at, t.counter_id, t.served_at
	`, counterID, serviceID, day, code)
	if err := row.Scan(&ticket.TicketID, &ticket.ServiceID, &ticket.ServiceTag, &ticket.WaitlistCode, &ticket.Status, &ticket.IssuedAt, &counterIDNull, &servedAtNull); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, store.ErrTicketNotFound
		}
		return models.Ticket{}, err
	}
	ticket.CounterID = nullStringPtr(counterIDNull)
	ticket.ServedAt = nullTimePtr(servedAtNull)
	return ticket, nil
}

func (s *Store) ListWaiting(ctx context.Context) ([]models.Ticket, error) {
	day := store.Day(time.Now().UTC())
	rows, err := s.pool.Query(ctx, `
		SELECT t.ticket_id, t.service_id, s.tag, t.waitlist_code, t.status, t.issued_at, t.counter_id, t.served_at
		FROM tickets t
		JOIN services s ON s.service_id = t.service_id
		WHERE t.status = 'waiting' AND t.counter_id IS NULL AND t.issued_day = $1
		ORDER BY t.waitlist_code ASC
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var ticket models.Ticket
		var counterIDNull sql.NullString
		var servedAtNull sql.NullTime
		if err := rows.Scan(&ticket.TicketID, &ticket.ServiceID, &ticket.ServiceTag, &ticket.WaitlistCode, &ticket.Status, &ticket.IssuedAt, &counterIDNull, &servedAtNull); err != nil {
			return nil, err
		}
		ticket.CounterID = nullStringPtr(counterIDNull)
		ticket.ServedAt = nullTimePtr(servedAtNull)
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *Store) HeldTicket(ctx context.Context, counterID string) (models.Ticket, error) {
	var ticket models.Ticket
	var counterIDNull sql.NullString
	var servedAtNull sql.NullTime
	row := s.pool.QueryRow(ctx, `
		SELECT t.ticket_id, t.service_id, s.tag, t.waitlist_code, t.status, t.issued_at, t.counter_id, t.served_at
		FROM tickets t
		JOIN services s ON s.service_id = t.service_id
		WHERE t.counter_id = $1 AND t.status = 'waiting'
	`, counterID)
	if err := row.Scan(&ticket.TicketID, &ticket.ServiceID, &ticket.ServiceTag, &ticket.WaitlistCode, &ticket.Status, &ticket.IssuedAt, &counterIDNull, &servedAtNull); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			check := s.pool.QueryRow(ctx, `
				SELECT EXISTS (SELECT 1 FROM counters WHERE counter_id = $1)
			`, counterID)
			if err := check.Scan(&exists); err != nil {
				return models.Ticket{}, err
			}
			if !exists {
				return models.Ticket{}, store.ErrUnknownCounter
			}
			return models.Ticket{}, store.ErrNoActiveTicket
		}
		return models.Ticket{}, err
	}
	ticket.CounterID = nullStringPtr(counterIDNull)
	ticket.ServedAt = nullTimePtr(servedAtNull)
	return ticket, nil
}

func (s *Store) ListServices(ctx context.Context) ([]models.Service, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT service_id, tag, name, COALESCE(description, ''), service_time_minutes
		FROM services
		ORDER BY tag ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(&svc.ServiceID, &svc.Tag, &svc.Name, &svc.Description, &svc.ServiceTime); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

func (s *Store) ListCounters(ctx context.Context) ([]models.Counter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.counter_id, c.name, c.active, cs.service_id
		FROM counters c
		LEFT JOIN counter_services cs ON cs.counter_id = c.counter_id
		ORDER BY c.name ASC, c.counter_id ASC, cs.position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counters []models.Counter
	index := map[string]int{}
	for rows.Next() {
		var counterID, name string
		var active bool
		var serviceIDNull sql.NullString
		if err := rows.Scan(&counterID, &name, &active, &serviceIDNull); err != nil {
			return nil, err
		}
		i, ok := index[counterID]
		if !ok {
			i = len(counters)
			index[counterID] = i
			counters = append(counters, models.Counter{CounterID: counterID, Name: name, Active: active})
		}
		if serviceIDNull.Valid {
			counters[i].Services = append(counters[i].Services, serviceIDNull.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counters, nil
}

func (s *Store) UpdateCounterActive(ctx context.Context, counterID string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE counters
		SET active = $1
		WHERE counter_id = $2
	`, active, counterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrUnknownCounter
	}
	return nil
}

func (s *Store) ListOutboxEvents(ctx context.Context, after int64, limit int) ([]store.OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT seq, event_id, type, payload_json, created_at
		FROM outbox_events
		WHERE seq > $1
		ORDER BY seq ASC
		LIMIT $2
	`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []store.OutboxEvent
	for rows.Next() {
		var event store.OutboxEvent
		if err := rows.Scan(&event.Seq, &event.EventID, &event.Type, &event.Payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func getServiceByName(ctx context.Context, tx pgx.Tx, name string) (models.Service, error) {
	var svc models.Service
	row := tx.QueryRow(ctx, `
		SELECT service_id, tag, name, COALESCE(description, ''), service_time_minutes
		FROM services
		WHERE name = $1
	`, name)
	if err := row.Scan(&svc.ServiceID, &svc.Tag, &svc.Name, &svc.Description, &svc.ServiceTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Service{}, store.ErrServiceNotFound
		}
		return models.Service{}, err
	}
	return svc, nil
}

func findTicketByRequestID(ctx context.Context, tx pgx.Tx, requestID string) (models.Ticket, bool, error) {
	var ticket models.Ticket
	var counterIDNull sql.NullString
	var servedAtNull sql.NullTime
	row := tx.QueryRow(ctx, `
		SELECT t.ticket_id, t.service_id, s.tag, t.waitlist_code, t.status, t.issued_at, t.counter_id, t.served_at
		FROM tickets t
		JOIN services s ON s.service_id = t.service_id
		WHERE t.request_id = $1
	`, requestID)
	if err := row.Scan(&ticket.TicketID, &ticket.ServiceID, &ticket.ServiceTag, &ticket.WaitlistCode, &ticket.Status, &ticket.IssuedAt, &counterIDNull, &servedAtNull); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, false, nil
		}
		return models.Ticket{}, false, err
	}
	ticket.RequestID = requestID
	ticket.CounterID = nullStringPtr(counterIDNull)
	ticket.ServedAt = nullTimePtr(servedAtNull)
	return ticket, true, nil
}

// findActionRequest looks up the idempotency record by request_id alone:
// the insert conflicts on request_id, so a request_id reused for a
// different action is a client error, not a fresh request.
func findActionRequest(ctx context.Context, tx pgx.Tx, action, requestID string) (models.Ticket, bool, bool, error) {
	var storedAction string
	var ticketID sql.NullString
	row := tx.QueryRow(ctx, `
		SELECT action, ticket_id
		FROM action_requests
		WHERE request_id = $1
	`, requestID)
	if err := row.Scan(&storedAction, &ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, false, false, nil
		}
		return models.Ticket{}, false, false, err
	}

	if storedAction != action {
		return models.Ticket{}, false, false, store.ErrInvalidState
	}

	if !ticketID.Valid {
		return models.Ticket{}, true, true, nil
	}

	ticket, err := getTicketByID(ctx, tx, ticketID.String)
	if err != nil {
		return models.Ticket{}, false, false, err
	}
	ticket.RequestID = requestID
	return ticket, true, false, nil
}

func getTicketByID(ctx context.Context, tx pgx.Tx, ticketID string) (models.Ticket, error) {
	var ticket models.Ticket
	var counterIDNull sql.NullString
	var servedAtNull sql.NullTime
	row := tx.QueryRow(ctx, `
		SELECT t.ticket_id, t.service_id, s.tag, t.waitlist_code, t.status, t.issued_at, t.counter_id, t.served_at
		FROM tickets t
		JOIN services s ON s.service_id = t.service_id
		WHERE t.ticket_id = $1
	`, ticketID)
	if err := row.Scan(&ticket.TicketID, &ticket.ServiceID, &ticket.ServiceTag, &ticket.WaitlistCode, &ticket.Status, &ticket.IssuedAt, &counterIDNull, &servedAtNull); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, store.ErrTicketNotFound
		}
		return models.Ticket{}, err
	}
	ticket.CounterID = nullStringPtr(counterIDNull)
	ticket.ServedAt = nullTimePtr(servedAtNull)
	return ticket, nil
}

func insertActionRequest(ctx context.Context, tx pgx.Tx, action, requestID, counterID, ticketID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO action_requests (request_id, action, counter_id, ticket_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (request_id) DO NOTHING
	`, requestID, action, nullIfEmpty(counterID), nullIfEmpty(ticketID))
	return err
}

func insertOutboxEvent(ctx context.Context, tx pgx.Tx, eventType string, payload map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO outbox_events (event_id, type, payload_json, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), eventType, payloadJSON, time.Now().UTC())
	return err
}

func ticketPayload(ticket models.Ticket) map[string]interface{} {
	return map[string]interface{}{
		"ticket_id":     ticket.TicketID,
		"service_id":    ticket.ServiceID,
		"service_tag":   ticket.ServiceTag,
		"waitlist_code": ticket.WaitlistCode,
		"status":        ticket.Status,
		"issued_at":     ticket.IssuedAt,
		"counter_id":    ticket.CounterID,
		"served_at":     ticket.ServedAt,
	}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	return &value.Time
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}

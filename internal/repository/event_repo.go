package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"feed_csrf/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const (
	insertEventSQL = `
		INSERT INTO account_events (id, occurred_at, type, email, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectEventsSQL = `SELECT id, occurred_at, type, email, message, meta FROM account_events`
)

// prepareEvent fills EventID and OccurredAt when empty and normalizes Type.
func prepareEvent(e models.AccountEvent) models.AccountEvent {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}
	e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
	return e
}

// Append stores e with its metadata as JSON. Unencodable metadata is dropped.
func (r *EventSQLite) Append(ctx context.Context, e models.AccountEvent) error {
	e = prepareEvent(e)
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID, e.OccurredAt, e.Type, e.Email, e.Description, encodeMeta(e.Metadata))
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.Type, err)
	}
	return nil
}

// List returns events for email filtered by [from, to] (inclusive) and/or type, ordered ASC.
// An empty email matches every account.
func (r *EventSQLite) List(ctx context.Context, email string, from, to time.Time, typ string) ([]models.AccountEvent, error) {
	q, args := eventFilter{email: email, from: from, to: to, typ: typ}.query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	var out []models.AccountEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	if out == nil {
		out = []models.AccountEvent{}
	}
	return out, nil
}

// eventFilter holds the optional List conditions; zero fields match anything.
type eventFilter struct {
	email    string
	from, to time.Time
	typ      string
}

func (f eventFilter) query() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if f.email != "" {
		add("email = ?", f.email)
	}
	if !f.from.IsZero() {
		add("occurred_at >= ?", f.from.UTC())
	}
	if !f.to.IsZero() {
		add("occurred_at <= ?", f.to.UTC())
	}
	if typ := strings.ToUpper(strings.TrimSpace(f.typ)); typ != "" {
		add("type = ?", typ)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	return q + " ORDER BY occurred_at ASC", args
}

func scanEvent(rows *sql.Rows) (models.AccountEvent, error) {
	var (
		ev   models.AccountEvent
		meta sql.NullString
	)
	if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Email, &ev.Description, &meta); err != nil {
		return ev, fmt.Errorf("scan event: %w", err)
	}
	ev.OccurredAt = ev.OccurredAt.UTC()
	ev.Metadata = decodeMeta(meta)
	return ev, nil
}

func encodeMeta(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// decodeMeta keeps malformed JSON as the raw string.
func decodeMeta(meta sql.NullString) any {
	if !meta.Valid || meta.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(meta.String), &v); err != nil {
		return meta.String
	}
	return v
}

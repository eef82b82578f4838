package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"feed_csrf/internal/models"
)

// EventMemory is an in-process audit log with the same filtering rules as EventSQLite.
type EventMemory struct {
	mu     sync.RWMutex
	events []models.AccountEvent
}

func NewEventMemory() *EventMemory { return &EventMemory{} }

var _ EventRepo = (*EventMemory)(nil)

func (r *EventMemory) Append(_ context.Context, e models.AccountEvent) error {
	e = prepareEvent(e)
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *EventMemory) List(_ context.Context, email string, from, to time.Time, typ string) ([]models.AccountEvent, error) {
	typ = strings.ToUpper(strings.TrimSpace(typ))

	r.mu.RLock()
	out := make([]models.AccountEvent, 0, len(r.events))
	for _, e := range r.events {
		if email != "" && e.Email != email {
			continue
		}
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		if typ != "" && e.Type != typ {
			continue
		}
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Event struct {
	ID       int64     `db:"id"`
	Title    string    `db:"title"`
	StartsAt time.Time `db:"starts_at"`
}

type Testimonial struct {
	ID       int64  `db:"id"`
	Author   string `db:"author"`
	Role     string `db:"role"`
	Quote    string `db:"quote"`
	Position int    `db:"position"`
}

type EventStore struct {
	db *sqlx.DB
}

func NewEventStore(db *sqlx.DB) *EventStore {
	return &EventStore{db: db}
}

// ListUpcoming returns up to limit events starting at or after since.
func (s *EventStore) ListUpcoming(ctx context.Context, since time.Time, limit int) ([]*Event, error) {
	var events []*Event
	err := s.db.SelectContext(ctx, &events, s.db.Rebind(`
		SELECT * FROM events WHERE starts_at >= ? ORDER BY starts_at LIMIT ?`), since.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

type TestimonialStore struct {
	db *sqlx.DB
}

func NewTestimonialStore(db *sqlx.DB) *TestimonialStore {
	return &TestimonialStore{db: db}
}

func (s *TestimonialStore) ListAll(ctx context.Context) ([]*Testimonial, error) {
	var out []*Testimonial
	if err := s.db.SelectContext(ctx, &out, `SELECT * FROM testimonials ORDER BY position`); err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return out, nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/geoproof/proof-of-attendance/internal/model"
)

// EventRepo mirrors authoritative ledger entries into the 'events' read
// table. The consumer calls Upsert when an EventCreated fact arrives;
// everything else is read-only listing for the browse endpoints. Ledger
// entries are immutable, so the upsert only exists to make redelivered
// notifications harmless.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle for callers that share transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

// Upsert writes one mirror row keyed by the ledger event id.
func (r *EventRepo) Upsert(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events
			(event_id, name, description, start_time, end_time,
			 lat_magnitude, lat_negative, lon_magnitude, lon_negative,
			 radius, max_attendees, min_stay_minutes, organizer)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE event_id = event_id`
	_, err := r.db.ExecContext(ctx, q,
		ev.EventID, ev.Name, ev.Description, ev.StartTime, ev.EndTime,
		ev.LatMagnitude, ev.LatNegative, ev.LonMagnitude, ev.LonNegative,
		ev.Radius, ev.MaxAttendees, ev.MinStayMinutes, ev.Organizer)
	return err
}

// GetByID returns one mirror row. ErrEventNotFound is returned when the
// event has not been mirrored (yet).
func (r *EventRepo) GetByID(ctx context.Context, eventID uint64) (*model.Event, error) {
	const q = `SELECT event_id, name, description, start_time, end_time,
			lat_magnitude, lat_negative, lon_magnitude, lon_negative,
			radius, max_attendees, min_stay_minutes, organizer, created_at
		FROM events WHERE event_id = ?`
	var ev model.Event
	err := r.db.QueryRowContext(ctx, q, eventID).Scan(
		&ev.EventID, &ev.Name, &ev.Description, &ev.StartTime, &ev.EndTime,
		&ev.LatMagnitude, &ev.LatNegative, &ev.LonMagnitude, &ev.LonNegative,
		&ev.Radius, &ev.MaxAttendees, &ev.MinStayMinutes, &ev.Organizer, &ev.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListByOrganizer returns all events created by one organizer, newest id
// first.
func (r *EventRepo) ListByOrganizer(ctx context.Context, organizer string) ([]model.Event, error) {
	const q = `SELECT event_id, name, description, start_time, end_time,
			lat_magnitude, lat_negative, lon_magnitude, lon_negative,
			radius, max_attendees, min_stay_minutes, organizer, created_at
		FROM events WHERE organizer = ? ORDER BY event_id DESC`
	rows, err := r.db.QueryContext(ctx, q, organizer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(
			&ev.EventID, &ev.Name, &ev.Description, &ev.StartTime, &ev.EndTime,
			&ev.LatMagnitude, &ev.LatNegative, &ev.LonMagnitude, &ev.LonNegative,
			&ev.Radius, &ev.MaxAttendees, &ev.MinStayMinutes, &ev.Organizer, &ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

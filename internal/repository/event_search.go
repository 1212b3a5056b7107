package repository

import (
	"context"
	"strings"

	"github.com/geoproof/proof-of-attendance/internal/model"
)

// EventSearchQuery defines filters & pagination for browsing events.
// TimeFilter accepts "upcoming" (default), "active" (window currently
// open) and "any".
type EventSearchQuery struct {
	Name       string
	Organizer  string
	TimeFilter string
	Page       int
	PageSize   int
}

// Search pages through the events read model with optional name and
// organizer filters. It returns the page plus the total match count so
// clients can render pagination.
func (r *EventRepo) Search(ctx context.Context, q EventSearchQuery) ([]model.Event, int64, error) {
	where := []string{}
	args := []any{}

	switch strings.ToLower(q.TimeFilter) {
	case "any":
	case "active":
		where = append(where, "start_time <= UNIX_TIMESTAMP() AND end_time > UNIX_TIMESTAMP()")
	default:
		where = append(where, "start_time >= UNIX_TIMESTAMP()")
	}

	if q.Name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Organizer != "" {
		where = append(where, "organizer = ?")
		args = append(args, strings.ToLower(q.Organizer))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM events WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT event_id, name, description, start_time, end_time,
			lat_magnitude, lat_negative, lon_magnitude, lon_negative,
			radius, max_attendees, min_stay_minutes, organizer, created_at
		FROM events
		WHERE ` + cond + `
		ORDER BY start_time ASC, event_id ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)
	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

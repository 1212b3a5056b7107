package repository

import (
	"context"
	"database/sql"

	"github.com/geoproof/proof-of-attendance/internal/model"
)

// AttendanceRepo mirrors verified attendance into the 'attendance' read
// table. Rows only appear once a check-out has minted a credential; an
// attendee who checked in but never completed is core-only state.
type AttendanceRepo struct {
	db *sql.DB
}

// NewAttendanceRepo returns a new AttendanceRepo bound to the database.
func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{db: db} }

// Upsert writes one verified attendance row keyed by (event, account).
// Redelivered notifications hit the unique key and change nothing.
func (r *AttendanceRepo) Upsert(ctx context.Context, a *model.Attendance) error {
	const q = `INSERT INTO attendance
			(event_id, account, check_in_time, check_out_time, token_id)
		VALUES (?,?,?,?,?)
		ON DUPLICATE KEY UPDATE token_id = token_id`
	_, err := r.db.ExecContext(ctx, q,
		a.EventID, a.Account, a.CheckInTime, a.CheckOutTime, a.TokenID)
	return err
}

// GetByKey returns the verified attendance row for one (event, account)
// pair, or sql.ErrNoRows when the pair never completed.
func (r *AttendanceRepo) GetByKey(ctx context.Context, eventID uint64, account string) (*model.Attendance, error) {
	const q = `SELECT id, event_id, account, check_in_time, check_out_time, token_id, created_at
		FROM attendance WHERE event_id = ? AND account = ?`
	var a model.Attendance
	err := r.db.QueryRowContext(ctx, q, eventID, account).Scan(
		&a.ID, &a.EventID, &a.Account, &a.CheckInTime, &a.CheckOutTime, &a.TokenID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByEvent returns all verified attendance for an event in check-out
// order (token ids increase monotonically, so ordering by token id is
// ordering by completion time).
func (r *AttendanceRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Attendance, error) {
	const q = `SELECT id, event_id, account, check_in_time, check_out_time, token_id, created_at
		FROM attendance WHERE event_id = ? ORDER BY token_id ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Attendance{}
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.ID, &a.EventID, &a.Account, &a.CheckInTime, &a.CheckOutTime, &a.TokenID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByEvent returns how many verified attendances an event has.
func (r *AttendanceRepo) CountByEvent(ctx context.Context, eventID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendance WHERE event_id = ?", eventID).Scan(&n)
	return n, err
}

package model

import "time"

// Attendance mirrors a completed (event, attendee) record into the
// `attendance` read table. Only verified attendance reaches this table:
// rows are written by the consumer when an AttendanceVerified fact
// arrives, so Completed check-ins that never checked out stay core-only.
//
// Fields:
//
//	ID           – primary key identifier.
//	EventID      – event the attendance belongs to.
//	Account      – attendee account address.
//	CheckInTime  – Unix seconds of the check-in.
//	CheckOutTime – Unix seconds of the verified check-out.
//	TokenID      – credential minted for this attendance.
//	CreatedAt    – timestamp the mirror row was written.
type Attendance struct {
	ID           uint64    // attendance.id
	EventID      uint64    // attendance.event_id
	Account      string    // attendance.account
	CheckInTime  int64     // attendance.check_in_time
	CheckOutTime int64     // attendance.check_out_time
	TokenID      uint64    // attendance.token_id
	CreatedAt    time.Time // attendance.created_at
}

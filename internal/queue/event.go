// Package queue defines the durable notification payloads the protocol
// core emits and the background consumer that mirrors them into the read
// stores. The two facts below are the only way derived state learns
// about ledger changes; external indexers consume the same queues.
package queue

// EventCreatedEvent is published when an organizer creates an event. The
// payload is denormalized: it carries the full ledger entry so consumers
// can index it without calling back into the service.
type EventCreatedEvent struct {
	EventID        uint64 `json:"event_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	StartTime      int64  `json:"start_time"`
	EndTime        int64  `json:"end_time"`
	LatMagnitude   uint64 `json:"lat_magnitude"`
	LatNegative    bool   `json:"lat_negative"`
	LonMagnitude   uint64 `json:"lon_magnitude"`
	LonNegative    bool   `json:"lon_negative"`
	Radius         uint64 `json:"radius"`
	MaxAttendees   uint64 `json:"max_attendees"`
	MinStayMinutes uint64 `json:"min_stay_minutes"`
	Organizer      string `json:"organizer"`
	CreatedAt      string `json:"created_at"`
}

// AttendanceVerifiedEvent is published when a check-out completes an
// attendance and mints a credential.
type AttendanceVerifiedEvent struct {
	EventID      uint64 `json:"event_id"`
	TokenID      uint64 `json:"token_id"`
	Account      string `json:"account"`
	CheckInTime  int64  `json:"check_in_time"`
	CheckOutTime int64  `json:"check_out_time"`
	VerifiedAt   string `json:"verified_at"`
}

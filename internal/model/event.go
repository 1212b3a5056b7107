package model

import "time"

// Event mirrors one authoritative ledger entry into the `events` read
// table. Rows are written exclusively by the notification consumer when
// an EventCreated fact arrives; the table exists for listing and search,
// never for protocol decisions.
//
// Fields:
//
//	EventID        – ledger-assigned sequential identifier.
//	Name           – display name.
//	Description    – free-form description.
//	StartTime      – Unix seconds when check-in opens.
//	EndTime        – Unix seconds when check-in closes.
//	LatMagnitude   – fixed-point latitude magnitude of the center.
//	LatNegative    – southern-hemisphere flag.
//	LonMagnitude   – fixed-point longitude magnitude of the center.
//	LonNegative    – western-hemisphere flag.
//	Radius         – geofence radius in encoded units.
//	MaxAttendees   – check-in capacity (0 = unlimited).
//	MinStayMinutes – required stay between check-in and check-out.
//	Organizer      – account that created the event.
//	CreatedAt      – timestamp the mirror row was written.
type Event struct {
	EventID        uint64    // events.event_id
	Name           string    // events.name
	Description    string    // events.description
	StartTime      int64     // events.start_time
	EndTime        int64     // events.end_time
	LatMagnitude   uint64    // events.lat_magnitude
	LatNegative    bool      // events.lat_negative
	LonMagnitude   uint64    // events.lon_magnitude
	LonNegative    bool      // events.lon_negative
	Radius         uint64    // events.radius
	MaxAttendees   uint64    // events.max_attendees
	MinStayMinutes uint64    // events.min_stay_minutes
	Organizer      string    // events.organizer
	CreatedAt      time.Time // events.created_at
}

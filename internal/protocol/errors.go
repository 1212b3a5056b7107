// Package protocol implements the authoritative attendance rules: the
// organizer registry, the event ledger, the per-(event, attendee) state
// machine and the credential issuer. All state lives in a single
// mutex-guarded container per deployment; MySQL and Redis only mirror it.
package protocol

import "errors"

// ErrUnauthorized is returned when the caller lacks the role an operation
// requires: only the owner account manages organizers and only organizer
// accounts create events. Handlers should translate this into HTTP 403.
var ErrUnauthorized = errors.New("unauthorized")

// ErrEventNotFound is returned when an event id has never been assigned.
var ErrEventNotFound = errors.New("event not found")

// ErrEventNotInProgress is returned when a check-in is attempted outside
// the [startTime, endTime) window. A check-in exactly at startTime is
// accepted; one at or after endTime is not.
var ErrEventNotInProgress = errors.New("event not in progress")

// ErrEventFull is returned when the event has already admitted
// maxAttendees check-ins. A maxAttendees of zero means unlimited.
var ErrEventFull = errors.New("event is full")

// ErrOutsideGeofence is returned when the reported location fails the
// radius test, at check-in or at check-out.
var ErrOutsideGeofence = errors.New("outside geofence")

// ErrMinimumStayNotMet is returned when a check-out happens before the
// event's minimum stay has elapsed since check-in.
var ErrMinimumStayNotMet = errors.New("minimum stay not met")

// ErrAlreadyCheckedIn is returned on a repeated check-in for the same
// (event, attendee) key, whether the record is checked in or completed.
var ErrAlreadyCheckedIn = errors.New("already checked in")

// ErrNotCheckedIn is returned on a check-out for a record that is not in
// the checked-in state (never checked in, or already completed).
var ErrNotCheckedIn = errors.New("not checked in")

package protocol

import (
	"sync"
	"time"
)

// Event is an immutable ledger entry describing one attendance event.
// Events are created once by an authorized organizer and never updated
// or deleted.
//
// Fields:
//
//	ID             – sequential identifier assigned from 0.
//	Name           – display name.
//	Description    – free-form description.
//	StartTime      – Unix seconds; check-in opens at this instant.
//	EndTime        – Unix seconds; check-in closes at this instant.
//	Center         – encoded geographic center of the venue.
//	Radius         – geofence radius in encoded units.
//	MaxAttendees   – check-in capacity; 0 means unlimited.
//	MinStayMinutes – minimum time between check-in and check-out.
//	Organizer      – account that created the event.
type Event struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	StartTime      int64  `json:"start_time"`
	EndTime        int64  `json:"end_time"`
	Center         Point  `json:"center"`
	Radius         uint64 `json:"radius"`
	MaxAttendees   uint64 `json:"max_attendees"`
	MinStayMinutes uint64 `json:"min_stay_minutes"`
	Organizer      string `json:"organizer"`
}

// EventParams carries the caller-supplied attributes of a new event.
// The id and organizer are assigned by the ledger.
type EventParams struct {
	Name           string
	Description    string
	StartTime      int64
	EndTime        int64
	Center         Point
	Radius         uint64
	MaxAttendees   uint64
	MinStayMinutes uint64
}

// AttendanceRecord tracks one attendee's progress through an event.
// A zero CheckInTime means the attendee never checked in. Completed can
// become true at most once, via a check-out that followed a check-in.
// Records are never deleted.
type AttendanceRecord struct {
	CheckInTime int64 `json:"check_in_time"`
	Completed   bool  `json:"completed"`
}

type attendanceKey struct {
	eventID  uint64
	attendee string
}

// Protocol is the single authoritative state container for a deployment.
// One instance owns the organizer registry, the event ledger, all
// attendance records and the credential table. Every mutating operation
// takes the write lock, which gives the total ordering the protocol
// requires: two concurrent check-ins for the same key can never both
// observe a fresh record. Failed operations mutate nothing.
type Protocol struct {
	mu          sync.RWMutex
	owner       string
	organizers  map[string]struct{}
	events      []Event
	attendance  map[attendanceKey]*AttendanceRecord
	admitted    map[uint64]uint64 // successful check-ins per event, for capacity
	nextToken   uint64
	credentials map[uint64]string // token id -> owning account
}

// New returns a Protocol owned by the given account. The owner is seeded
// into the organizer registry and may create events without a separate
// grant.
func New(owner string) *Protocol {
	return &Protocol{
		owner:       owner,
		organizers:  map[string]struct{}{owner: {}},
		attendance:  make(map[attendanceKey]*AttendanceRecord),
		admitted:    make(map[uint64]uint64),
		credentials: make(map[uint64]string),
	}
}

// Owner returns the privileged deployment account.
func (p *Protocol) Owner() string {
	return p.owner
}

// AddOrganizer grants the organizer capability to target. Only the owner
// may call it; the insert is idempotent.
func (p *Protocol) AddOrganizer(caller, target string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return ErrUnauthorized
	}
	p.organizers[target] = struct{}{}
	return nil
}

// RemoveOrganizer revokes the organizer capability from target. Only the
// owner may call it; removing an absent entry is not an error.
func (p *Protocol) RemoveOrganizer(caller, target string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return ErrUnauthorized
	}
	delete(p.organizers, target)
	return nil
}

// IsOrganizer reports whether account currently holds the organizer
// capability.
func (p *Protocol) IsOrganizer(account string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.organizers[account]
	return ok
}

// CreateEvent appends a new immutable event to the ledger and returns it
// with its assigned id. It fails only when the caller is not an
// organizer. Time ordering and radius are deliberately not validated: a
// malformed event is merely unusable, never a ledger corruption, and the
// deployed record format accepts such entries.
func (p *Protocol) CreateEvent(caller string, params EventParams) (Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.organizers[caller]; !ok {
		return Event{}, ErrUnauthorized
	}
	ev := Event{
		ID:             uint64(len(p.events)),
		Name:           params.Name,
		Description:    params.Description,
		StartTime:      params.StartTime,
		EndTime:        params.EndTime,
		Center:         params.Center,
		Radius:         params.Radius,
		MaxAttendees:   params.MaxAttendees,
		MinStayMinutes: params.MinStayMinutes,
		Organizer:      caller,
	}
	p.events = append(p.events, ev)
	return ev, nil
}

// Event returns the ledger entry for id.
func (p *Protocol) Event(id uint64) (Event, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if id >= uint64(len(p.events)) {
		return Event{}, ErrEventNotFound
	}
	return p.events[id], nil
}

// Events returns a copy of the full ledger in creation order.
func (p *Protocol) Events() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// CheckIn records the attendee's arrival at the event. It requires the
// event to be in progress (start <= now < end), the reported point to be
// inside the geofence, a record that has never been checked in, and free
// capacity. On success the record transitions to checked-in with the
// given timestamp; on any failure nothing changes.
func (p *Protocol) CheckIn(eventID uint64, attendee string, point Point, now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if eventID >= uint64(len(p.events)) {
		return ErrEventNotFound
	}
	ev := p.events[eventID]
	ts := now.Unix()
	if ts < ev.StartTime || ts >= ev.EndTime {
		return ErrEventNotInProgress
	}
	if !WithinRadius(ev.Center, point, ev.Radius) {
		return ErrOutsideGeofence
	}
	key := attendanceKey{eventID: eventID, attendee: attendee}
	if rec, ok := p.attendance[key]; ok && (rec.CheckInTime != 0 || rec.Completed) {
		return ErrAlreadyCheckedIn
	}
	if ev.MaxAttendees > 0 && p.admitted[eventID] >= ev.MaxAttendees {
		return ErrEventFull
	}
	p.attendance[key] = &AttendanceRecord{CheckInTime: ts}
	p.admitted[eventID]++
	return nil
}

// CheckOut completes the attendee's record and mints their credential,
// returning the assigned token id. It requires a checked-in record, a
// point inside the same geofence, and the event's minimum stay to have
// elapsed since check-in. The event's end time is intentionally not
// re-checked: an attendee who checked in during the window may check out
// after it closes once the minimum stay clears.
func (p *Protocol) CheckOut(eventID uint64, attendee string, point Point, now time.Time) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if eventID >= uint64(len(p.events)) {
		return 0, ErrEventNotFound
	}
	ev := p.events[eventID]
	key := attendanceKey{eventID: eventID, attendee: attendee}
	rec, ok := p.attendance[key]
	if !ok || rec.CheckInTime == 0 || rec.Completed {
		return 0, ErrNotCheckedIn
	}
	if !WithinRadius(ev.Center, point, ev.Radius) {
		return 0, ErrOutsideGeofence
	}
	if now.Unix()-rec.CheckInTime < int64(ev.MinStayMinutes)*60 {
		return 0, ErrMinimumStayNotMet
	}
	tokenID := p.nextToken
	p.nextToken++
	p.credentials[tokenID] = attendee
	rec.Completed = true
	return tokenID, nil
}

// Record returns the attendance record for the (event, attendee) key.
// A fresh zero record is returned for keys that were never touched, so
// callers can distinguish states without a presence flag.
func (p *Protocol) Record(eventID uint64, attendee string) (AttendanceRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if eventID >= uint64(len(p.events)) {
		return AttendanceRecord{}, ErrEventNotFound
	}
	if rec, ok := p.attendance[attendanceKey{eventID: eventID, attendee: attendee}]; ok {
		return *rec, nil
	}
	return AttendanceRecord{}, nil
}

// OwnerOf returns the account a credential was minted to.
func (p *Protocol) OwnerOf(tokenID uint64) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	owner, ok := p.credentials[tokenID]
	return owner, ok
}

// CredentialCount returns how many credentials have been minted across
// all events, which is also the next token id.
func (p *Protocol) CredentialCount() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nextToken
}

// Admitted returns the number of successful check-ins for an event.
func (p *Protocol) Admitted(eventID uint64) uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.admitted[eventID]
}

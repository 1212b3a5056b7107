package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerAcct     = "0xowner"
	organizerAcct = "0xorganizer"
	attendee1     = "0xattendee1"
	attendee2     = "0xattendee2"
)

// conferenceParams mirrors the recorded Bangkok deployment: a one-day
// window starting a day out, 100-unit radius, 60 minute minimum stay.
func conferenceParams(base int64) EventParams {
	return EventParams{
		Name:           "Riverside Developer Conference",
		Description:    "Developer conference at AVANI+ Riverside Bangkok",
		StartTime:      base + 86400,
		EndTime:        base + 172800,
		Center:         bangkok,
		Radius:         100,
		MaxAttendees:   500,
		MinStayMinutes: 60,
	}
}

func newConference(t *testing.T, base int64) *Protocol {
	t.Helper()
	p := New(ownerAcct)
	require.NoError(t, p.AddOrganizer(ownerAcct, organizerAcct))
	ev, err := p.CreateEvent(organizerAcct, conferenceParams(base))
	require.NoError(t, err)
	require.Equal(t, uint64(0), ev.ID)
	return p
}

func at(unix int64) time.Time { return time.Unix(unix, 0) }

func TestOwnerSeededAsOrganizer(t *testing.T) {
	p := New(ownerAcct)
	assert.Equal(t, ownerAcct, p.Owner())
	assert.True(t, p.IsOrganizer(ownerAcct))
	assert.False(t, p.IsOrganizer(organizerAcct))
}

func TestOrganizerManagement(t *testing.T) {
	p := New(ownerAcct)

	require.NoError(t, p.AddOrganizer(ownerAcct, organizerAcct))
	assert.True(t, p.IsOrganizer(organizerAcct))

	// Idempotent insert and removal.
	require.NoError(t, p.AddOrganizer(ownerAcct, organizerAcct))
	require.NoError(t, p.RemoveOrganizer(ownerAcct, organizerAcct))
	assert.False(t, p.IsOrganizer(organizerAcct))
	require.NoError(t, p.RemoveOrganizer(ownerAcct, organizerAcct))

	// Only the owner manages the registry, organizers included.
	require.NoError(t, p.AddOrganizer(ownerAcct, organizerAcct))
	assert.ErrorIs(t, p.AddOrganizer(organizerAcct, attendee1), ErrUnauthorized)
	assert.ErrorIs(t, p.RemoveOrganizer(attendee1, organizerAcct), ErrUnauthorized)
	assert.True(t, p.IsOrganizer(organizerAcct))
	assert.False(t, p.IsOrganizer(attendee1))
}

func TestCreateEventRequiresOrganizer(t *testing.T) {
	p := New(ownerAcct)
	_, err := p.CreateEvent(attendee1, conferenceParams(0))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, p.Events())
}

func TestCreateEventAssignsSequentialIDs(t *testing.T) {
	p := New(ownerAcct)
	for i := 0; i < 3; i++ {
		ev, err := p.CreateEvent(ownerAcct, conferenceParams(int64(i)))
		require.NoError(t, err)
		assert.Equal(t, uint64(i), ev.ID)
		assert.Equal(t, ownerAcct, ev.Organizer)
	}
	assert.Len(t, p.Events(), 3)

	got, err := p.Event(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1+86400), got.StartTime)

	_, err = p.Event(3)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCheckInTimeWindow(t *testing.T) {
	base := int64(1_700_000_000)
	p := newConference(t, base)

	// Before the window opens.
	err := p.CheckIn(0, attendee1, bangkok, at(base+86399))
	assert.ErrorIs(t, err, ErrEventNotInProgress)

	// Exactly at start: accepted.
	require.NoError(t, p.CheckIn(0, attendee1, bangkok, at(base+86400)))

	// Exactly at end and after: rejected.
	err = p.CheckIn(0, attendee2, bangkok, at(base+172800))
	assert.ErrorIs(t, err, ErrEventNotInProgress)
	err = p.CheckIn(0, attendee2, bangkok, at(base+172800+3600))
	assert.ErrorIs(t, err, ErrEventNotInProgress)
}

func TestCheckInGeofence(t *testing.T) {
	base := int64(1_700_000_000)
	p := newConference(t, base)
	start := at(base + 86400)

	// 50 units away succeeds.
	near := Point{Lat: Coordinate{Magnitude: 1370300}, Lon: Coordinate{Magnitude: 10048970}}
	require.NoError(t, p.CheckIn(0, attendee1, near, start))

	// 200 units away fails and leaves the record untouched.
	far := Point{Lat: Coordinate{Magnitude: 1370450}, Lon: Coordinate{Magnitude: 10048970}}
	err := p.CheckIn(0, attendee2, far, start)
	assert.ErrorIs(t, err, ErrOutsideGeofence)
	rec, err := p.Record(0, attendee2)
	require.NoError(t, err)
	assert.Zero(t, rec.CheckInTime)
	assert.False(t, rec.Completed)
}

func TestCheckInUnknownEvent(t *testing.T) {
	p := New(ownerAcct)
	err := p.CheckIn(7, attendee1, bangkok, at(0))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDoubleCheckInRejected(t *testing.T) {
	base := int64(1_700_000_000)
	p := newConference(t, base)
	start := at(base + 86400)

	require.NoError(t, p.CheckIn(0, attendee1, bangkok, start))
	before, err := p.Record(0, attendee1)
	require.NoError(t, err)

	err = p.CheckIn(0, attendee1, bangkok, start.Add(10*time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	after, err := p.Record(0, attendee1)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed check-in must not mutate the record")
}

func TestFullAttendanceCycle(t *testing.T) {
	base := int64(1_700_000_000)
	p := newConference(t, base)
	start := at(base + 86400)

	require.NoError(t, p.CheckIn(0, attendee1, bangkok, start))

	tokenID, err := p.CheckOut(0, attendee1, bangkok, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tokenID)

	owner, ok := p.OwnerOf(0)
	require.True(t, ok)
	assert.Equal(t, attendee1, owner)

	rec, err := p.Record(0, attendee1)
	require.NoError(t, err)
	assert.True(t, rec.Completed)
	assert.Equal(t, start.Unix(), rec.CheckInTime)
	assert.Equal(t, uint64(1), p.CredentialCount())
}

func TestCheckOutMinimumStay(t *testing.T) {
	base := int64(1_700_000_000)
	p := newConference(t, base)
	start := at(base + 86400)

	require.NoError(t, p.CheckIn(0, attendee1, bangkok, start))

	// 30 of the required 60 minutes: rejected, nothing minted.
	_, err := p.CheckOut(0, attendee1, bangkok, start.Add(30*time.Minute))
	assert.ErrorIs(t, err, ErrMinimumStayNotMet)
	assert.Zero(t, p.CredentialCount())

	// Exactly at the threshold: accepted.
	_, err = p.CheckOut(0, attendee1, bangkok, start.Add(60*time.Minute))
	require.NoError(t, err)
}

func TestCheckOutRevalidatesGeofence(t *testing.T) {
	base := int64(1_700_000_000)
	p := newConference(t, base)
	start := at(base + 86400)

	require.NoError(t, p.CheckIn(0, attendee1, bangkok, start))

	far := Point{Lat: Coordinate{Magnitude: 1370450}, Lon: Coordinate{Magnitude: 10048970}}
	_, err := p.CheckOut(0, attendee1, far, start.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrOutsideGeofence)

	// Still checked in; a compliant check-out afterwards succeeds.
	_, err = p.CheckOut(0, attendee1, bangkok, start.Add(2*time.Hour))
	require.NoError(t, err)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	base := int64(1_700_000_000)
	p := newConference(t, base)

	_, err := p.CheckOut(0, attendee1, bangkok, at(base+90000))
	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestCheckOutTwiceRejected(t *testing.T) {
	base := int64(1_700_000_000)
	p := newConference(t, base)
	start := at(base + 86400)

	require.NoError(t, p.CheckIn(0, attendee1, bangkok, start))
	_, err := p.CheckOut(0, attendee1, bangkok, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = p.CheckOut(0, attendee1, bangkok, start.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNotCheckedIn)
	assert.Equal(t, uint64(1), p.CredentialCount(), "no second credential for the same record")
}

func TestCheckOutAllowedAfterEventEnd(t *testing.T) {
	base := int64(1_700_000_000)
	p := New(ownerAcct)
	params := conferenceParams(base)
	params.MinStayMinutes = 120
	_, err := p.CreateEvent(ownerAcct, params)
	require.NoError(t, err)

	// Check in one minute before the window closes; the minimum stay only
	// clears after the event's nominal end, and that is fine.
	lastMinute := at(params.EndTime - 60)
	require.NoError(t, p.CheckIn(0, attendee1, bangkok, lastMinute))

	tokenID, err := p.CheckOut(0, attendee1, bangkok, lastMinute.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tokenID)
}

func TestTokenIDsGloballySequential(t *testing.T) {
	base := int64(1_700_000_000)
	p := New(ownerAcct)
	for i := 0; i < 2; i++ {
		_, err := p.CreateEvent(ownerAcct, conferenceParams(base))
		require.NoError(t, err)
	}
	start := at(base + 86400)

	// Interleave completions across both events: the counter is shared.
	require.NoError(t, p.CheckIn(0, attendee1, bangkok, start))
	require.NoError(t, p.CheckIn(1, attendee1, bangkok, start))
	require.NoError(t, p.CheckIn(1, attendee2, bangkok, start))

	tok, err := p.CheckOut(1, attendee1, bangkok, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tok)

	tok, err = p.CheckOut(0, attendee1, bangkok, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tok)

	tok, err = p.CheckOut(1, attendee2, bangkok, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tok)

	owner, ok := p.OwnerOf(2)
	require.True(t, ok)
	assert.Equal(t, attendee2, owner)
	_, ok = p.OwnerOf(3)
	assert.False(t, ok)
}

func TestCapacityEnforcedAtCheckIn(t *testing.T) {
	base := int64(1_700_000_000)
	p := New(ownerAcct)
	params := conferenceParams(base)
	params.MaxAttendees = 1
	_, err := p.CreateEvent(ownerAcct, params)
	require.NoError(t, err)
	start := at(base + 86400)

	require.NoError(t, p.CheckIn(0, attendee1, bangkok, start))
	assert.Equal(t, uint64(1), p.Admitted(0))

	err = p.CheckIn(0, attendee2, bangkok, start)
	assert.ErrorIs(t, err, ErrEventFull)
	assert.Equal(t, uint64(1), p.Admitted(0))
}

func TestZeroCapacityMeansUnlimited(t *testing.T) {
	base := int64(1_700_000_000)
	p := New(ownerAcct)
	params := conferenceParams(base)
	params.MaxAttendees = 0
	_, err := p.CreateEvent(ownerAcct, params)
	require.NoError(t, err)
	start := at(base + 86400)

	require.NoError(t, p.CheckIn(0, attendee1, bangkok, start))
	require.NoError(t, p.CheckIn(0, attendee2, bangkok, start))
}

func TestHemisphereAttendanceCycle(t *testing.T) {
	base := int64(1_700_000_000)
	p := New(ownerAcct)
	params := conferenceParams(base)
	params.Name = "Rio Meetup"
	params.Center = rio
	_, err := p.CreateEvent(ownerAcct, params)
	require.NoError(t, err)
	start := at(base + 86400)

	// Sydney coordinates against the Rio geofence are rejected.
	err = p.CheckIn(0, attendee1, sydney, start)
	assert.ErrorIs(t, err, ErrOutsideGeofence)

	// The full cycle works with both axes negative.
	require.NoError(t, p.CheckIn(0, attendee1, rio, start))
	tok, err := p.CheckOut(0, attendee1, rio, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tok)
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoproof/proof-of-attendance/internal/protocol"
)

const (
	testOwner     = "0xowner"
	testOrganizer = "0xorganizer"
	testAttendee  = "0xattendee"
)

// venue is the recorded Bangkok deployment center.
var venue = protocol.Point{
	Lat: protocol.Coordinate{Magnitude: 1370250},
	Lon: protocol.Coordinate{Magnitude: 10048970},
}

func newCore(t *testing.T) *protocol.Protocol {
	t.Helper()
	core := protocol.New(testOwner)
	require.NoError(t, core.AddOrganizer(testOwner, testOrganizer))
	return core
}

// liveEvent creates an event whose window is open right now.
func liveEvent(t *testing.T, core *protocol.Protocol) protocol.Event {
	t.Helper()
	now := time.Now().Unix()
	ev, err := core.CreateEvent(testOrganizer, protocol.EventParams{
		Name:           "Riverside Developer Conference",
		StartTime:      now - 3600,
		EndTime:        now + 3600,
		Center:         venue,
		Radius:         100,
		MinStayMinutes: 0,
	})
	require.NoError(t, err)
	return ev
}

// doJSON drives one handler through a fresh echo context. account, when
// non-empty, simulates what the JWT middleware injects.
func doJSON(method, target, body, account string, params map[string]string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if account != "" {
		c.Set("account", account)
	}
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	_ = h(c)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestOrganizerGrantAndStatus(t *testing.T) {
	core := newCore(t)
	h := NewOrganizerHandler(core)

	rec := doJSON(http.MethodPost, "/v1/organizers",
		`{"address":"0xNewOrganizer"}`, testOwner, nil, h.Grant)
	assert.Equal(t, http.StatusOK, rec.Code)
	// Addresses normalize to lower case on the way in.
	assert.True(t, core.IsOrganizer("0xneworganizer"))

	rec = doJSON(http.MethodGet, "/", "", "",
		map[string]string{"account": "0xNewOrganizer"}, h.Status)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["is_organizer"])
}

func TestOrganizerGrantRequiresOwner(t *testing.T) {
	core := newCore(t)
	h := NewOrganizerHandler(core)

	rec := doJSON(http.MethodPost, "/v1/organizers",
		`{"address":"0xsomeone"}`, testOrganizer, nil, h.Grant)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, core.IsOrganizer("0xsomeone"))
}

func TestOrganizerRevoke(t *testing.T) {
	core := newCore(t)
	h := NewOrganizerHandler(core)

	rec := doJSON(http.MethodDelete, "/", "", testOwner,
		map[string]string{"account": testOrganizer}, h.Revoke)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, core.IsOrganizer(testOrganizer))
}

func TestCreateEventRejectsNonOrganizer(t *testing.T) {
	core := newCore(t)
	h := NewEventHandler(core)

	rec := doJSON(http.MethodPost, "/v1/events",
		`{"name":"x","location":{"lat":{"magnitude":1},"lon":{"magnitude":1}}}`,
		testAttendee, nil, h.Create)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, core.Events())
}

func TestCreateEventRejectsSignedZero(t *testing.T) {
	core := newCore(t)
	h := NewEventHandler(core)

	body := `{"name":"x","location":{"lat":{"magnitude":0,"negative":true},"lon":{"magnitude":1}}}`
	rec := doJSON(http.MethodPost, "/v1/events", body, testOrganizer, nil, h.Create)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckInHandler(t *testing.T) {
	core := newCore(t)
	ev := liveEvent(t, core)
	h := NewAttendanceHandler(core, nil)

	body := `{"location":{"lat":{"magnitude":1370250},"lon":{"magnitude":10048970}}}`
	rec := doJSON(http.MethodPost, "/", body, testAttendee,
		map[string]string{"id": "0"}, h.CheckIn)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := core.Record(ev.ID, testAttendee)
	require.NoError(t, err)
	assert.NotZero(t, got.CheckInTime)
}

func TestCheckInHandlerMapsPreconditions(t *testing.T) {
	core := newCore(t)
	liveEvent(t, core)
	h := NewAttendanceHandler(core, nil)

	// Outside the geofence: a conflict, not a client error.
	far := `{"location":{"lat":{"magnitude":9999999},"lon":{"magnitude":10048970}}}`
	rec := doJSON(http.MethodPost, "/", far, testAttendee,
		map[string]string{"id": "0"}, h.CheckIn)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown event.
	inside := `{"location":{"lat":{"magnitude":1370250},"lon":{"magnitude":10048970}}}`
	rec = doJSON(http.MethodPost, "/", inside, testAttendee,
		map[string]string{"id": "42"}, h.CheckIn)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Garbage id.
	rec = doJSON(http.MethodPost, "/", inside, testAttendee,
		map[string]string{"id": "abc"}, h.CheckIn)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordStatusStrings(t *testing.T) {
	core := newCore(t)
	ev := liveEvent(t, core)
	h := NewAttendanceHandler(core, nil)

	rec := doJSON(http.MethodGet, "/", "", "",
		map[string]string{"id": "0", "account": testAttendee}, h.Record)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "never_checked_in", decodeBody(t, rec)["status"])

	require.NoError(t, core.CheckIn(ev.ID, testAttendee, venue, time.Now()))
	rec = doJSON(http.MethodGet, "/", "", "",
		map[string]string{"id": "0", "account": testAttendee}, h.Record)
	assert.Equal(t, "checked_in", decodeBody(t, rec)["status"])

	_, err := core.CheckOut(ev.ID, testAttendee, venue, time.Now())
	require.NoError(t, err)
	rec = doJSON(http.MethodGet, "/", "", "",
		map[string]string{"id": "0", "account": testAttendee}, h.Record)
	assert.Equal(t, "completed", decodeBody(t, rec)["status"])
}

func TestBrowseEventDetail(t *testing.T) {
	core := newCore(t)
	ev := liveEvent(t, core)
	require.NoError(t, core.CheckIn(ev.ID, testAttendee, venue, time.Now()))
	h := NewBrowseHandler(core, nil, nil)

	rec := doJSON(http.MethodGet, "/", "", "",
		map[string]string{"id": "0"}, h.GetEvent)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["admitted"])

	detail := body["event"].(map[string]any)
	assert.Equal(t, ev.Name, detail["name"])
	lat := detail["latitude"].(map[string]any)
	assert.InDelta(t, 13.7025, lat["degrees"].(float64), 1e-9)

	rec = doJSON(http.MethodGet, "/", "", "",
		map[string]string{"id": "9"}, h.GetEvent)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBrowseListAndStats(t *testing.T) {
	core := newCore(t)
	liveEvent(t, core)
	liveEvent(t, core)
	h := NewBrowseHandler(core, nil, nil)

	rec := doJSON(http.MethodGet, "/", "", "", nil, h.ListEvents)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["total"])

	rec = doJSON(http.MethodGet, "/", "", "", nil, h.Stats)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["events"])
	assert.Equal(t, float64(0), body["credentials"])
}

func TestProtocolStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, protocolStatus(protocol.ErrUnauthorized))
	assert.Equal(t, http.StatusNotFound, protocolStatus(protocol.ErrEventNotFound))
	for _, err := range []error{
		protocol.ErrEventNotInProgress,
		protocol.ErrEventFull,
		protocol.ErrOutsideGeofence,
		protocol.ErrMinimumStayNotMet,
		protocol.ErrAlreadyCheckedIn,
		protocol.ErrNotCheckedIn,
	} {
		assert.Equal(t, http.StatusConflict, protocolStatus(err))
	}
}

// Package handler implements the HTTP surface. Handlers translate JSON
// requests into protocol-core calls, publish the resulting notification
// facts, and map protocol errors to HTTP statuses. They never mutate
// derived state directly; the mirror consumer owns that.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/protocol"
)

// contextWithTimeout bounds a read-model query by the request context.
func contextWithTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// getAccount extracts the authenticated account address stored in the
// context by the JWT middleware.
func getAccount(c echo.Context) (string, error) {
	if v := c.Get("account"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, nil
		}
	}
	return "", errors.New("no account in context")
}

// protocolStatus maps a protocol error kind to an HTTP status. Every
// rejected precondition keeps its own message so clients can tell "too
// early" from "wrong place".
func protocolStatus(err error) int {
	switch {
	case errors.Is(err, protocol.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, protocol.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, protocol.ErrEventNotInProgress),
		errors.Is(err, protocol.ErrEventFull),
		errors.Is(err, protocol.ErrOutsideGeofence),
		errors.Is(err, protocol.ErrMinimumStayNotMet),
		errors.Is(err, protocol.ErrAlreadyCheckedIn),
		errors.Is(err, protocol.ErrNotCheckedIn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// protocolJSON writes the standard error body for a protocol failure.
func protocolJSON(c echo.Context, err error) error {
	return c.JSON(protocolStatus(err), echo.Map{"error": err.Error()})
}

// coordinateReq is one axis of a position on the wire: fixed-point
// magnitude plus the out-of-band sign flag, never a native signed value.
type coordinateReq struct {
	Magnitude uint64 `json:"magnitude"`
	Negative  bool   `json:"negative"`
}

// pointReq is the encoded (latitude, longitude) pair used by check-in,
// check-out and event creation requests.
type pointReq struct {
	Lat coordinateReq `json:"lat"`
	Lon coordinateReq `json:"lon"`
}

func (p pointReq) toPoint() protocol.Point {
	return protocol.Point{
		Lat: protocol.Coordinate{Magnitude: p.Lat.Magnitude, Negative: p.Lat.Negative},
		Lon: protocol.Coordinate{Magnitude: p.Lon.Magnitude, Negative: p.Lon.Negative},
	}
}

func (p pointReq) valid() bool {
	// A zero magnitude must not carry a sign.
	if p.Lat.Magnitude == 0 && p.Lat.Negative {
		return false
	}
	if p.Lon.Magnitude == 0 && p.Lon.Negative {
		return false
	}
	return true
}

// coordinateResp mirrors the stored encoding and adds the decoded
// decimal degrees for human consumers.
type coordinateResp struct {
	Magnitude uint64  `json:"magnitude"`
	Negative  bool    `json:"negative"`
	Degrees   float64 `json:"degrees"`
}

// eventResp is the JSON shape of one ledger entry.
type eventResp struct {
	ID             uint64         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	StartTime      int64          `json:"start_time"`
	EndTime        int64          `json:"end_time"`
	Latitude       coordinateResp `json:"latitude"`
	Longitude      coordinateResp `json:"longitude"`
	Radius         uint64         `json:"radius"`
	MaxAttendees   uint64         `json:"max_attendees"`
	MinStayMinutes uint64         `json:"min_stay_minutes"`
	Organizer      string         `json:"organizer"`
}

func toEventResp(ev protocol.Event) eventResp {
	return eventResp{
		ID:             ev.ID,
		Name:           ev.Name,
		Description:    ev.Description,
		StartTime:      ev.StartTime,
		EndTime:        ev.EndTime,
		Latitude:       toCoordinateResp(ev.Center.Lat),
		Longitude:      toCoordinateResp(ev.Center.Lon),
		Radius:         ev.Radius,
		MaxAttendees:   ev.MaxAttendees,
		MinStayMinutes: ev.MinStayMinutes,
		Organizer:      ev.Organizer,
	}
}

func toCoordinateResp(c protocol.Coordinate) coordinateResp {
	return coordinateResp{Magnitude: c.Magnitude, Negative: c.Negative, Degrees: c.Decode()}
}

// normalizeAccount lowercases an address from a path parameter so it
// matches the identities stored by the auth layer.
func normalizeAccount(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

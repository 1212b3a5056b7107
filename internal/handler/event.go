package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/protocol"
	"github.com/geoproof/proof-of-attendance/internal/queue"
	queuepub "github.com/geoproof/proof-of-attendance/internal/service"
)

// EventHandler covers the organizer side of the ledger: creating events
// and announcing them to the mirror consumer and external indexers.
type EventHandler struct {
	Core *protocol.Protocol
}

func NewEventHandler(core *protocol.Protocol) *EventHandler {
	return &EventHandler{Core: core}
}

type createEventReq struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	StartTime      int64    `json:"start_time"`
	EndTime        int64    `json:"end_time"`
	Location       pointReq `json:"location"`
	Radius         uint64   `json:"radius"`
	MaxAttendees   uint64   `json:"max_attendees"`
	MinStayMinutes uint64   `json:"min_stay_minutes"`
}

// Create appends a new event to the ledger. Requires the organizer
// capability; the authenticated account becomes the event's organizer.
func (h *EventHandler) Create(c echo.Context) error {
	caller, err := getAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if !req.Location.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "zero coordinate cannot be negative"})
	}

	ev, err := h.Core.CreateEvent(caller, protocol.EventParams{
		Name:           req.Name,
		Description:    req.Description,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Center:         req.Location.toPoint(),
		Radius:         req.Radius,
		MaxAttendees:   req.MaxAttendees,
		MinStayMinutes: req.MinStayMinutes,
	})
	if err != nil {
		return protocolJSON(c, err)
	}

	// The ledger append has committed; a broker outage only delays the
	// mirror, it cannot undo the event.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queuepub.PublishEventCreated(ctx, queue.EventCreatedEvent{
		EventID:        ev.ID,
		Name:           ev.Name,
		Description:    ev.Description,
		StartTime:      ev.StartTime,
		EndTime:        ev.EndTime,
		LatMagnitude:   ev.Center.Lat.Magnitude,
		LatNegative:    ev.Center.Lat.Negative,
		LonMagnitude:   ev.Center.Lon.Magnitude,
		LonNegative:    ev.Center.Lon.Negative,
		Radius:         ev.Radius,
		MaxAttendees:   ev.MaxAttendees,
		MinStayMinutes: ev.MinStayMinutes,
		Organizer:      ev.Organizer,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toEventResp(ev))
}

// eventIDParam parses the :id path parameter.
func eventIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

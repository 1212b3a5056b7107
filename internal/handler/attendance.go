package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/protocol"
	"github.com/geoproof/proof-of-attendance/internal/queue"
	"github.com/geoproof/proof-of-attendance/internal/repository"
	queuepub "github.com/geoproof/proof-of-attendance/internal/service"
)

// AttendanceHandler covers the attendee side: the two-phase check-in /
// check-out flow against the core, plus reads of attendance state.
type AttendanceHandler struct {
	Core       *protocol.Protocol
	Attendance *repository.AttendanceRepo
}

func NewAttendanceHandler(core *protocol.Protocol, att *repository.AttendanceRepo) *AttendanceHandler {
	return &AttendanceHandler{Core: core, Attendance: att}
}

type positionReq struct {
	Location pointReq `json:"location"`
}

// CheckIn records the authenticated account's arrival at an event. The
// reported position must be inside the geofence and the event window
// must be open.
func (h *AttendanceHandler) CheckIn(c echo.Context) error {
	account, err := getAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req positionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !req.Location.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "zero coordinate cannot be negative"})
	}

	now := time.Now()
	if err := h.Core.CheckIn(eventID, account, req.Location.toPoint(), now); err != nil {
		return protocolJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":      eventID,
		"account":       account,
		"check_in_time": now.Unix(),
	})
}

// CheckOut completes the attendance and mints the credential. On
// success the verified fact is published so the mirror and external
// indexers pick it up.
func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	account, err := getAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req positionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !req.Location.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "zero coordinate cannot be negative"})
	}

	// Read the check-in time before the transition flips Completed; the
	// verified fact carries the full interval.
	rec, _ := h.Core.Record(eventID, account)

	now := time.Now()
	tokenID, err := h.Core.CheckOut(eventID, account, req.Location.toPoint(), now)
	if err != nil {
		return protocolJSON(c, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queuepub.PublishAttendanceVerified(ctx, queue.AttendanceVerifiedEvent{
		EventID:      eventID,
		TokenID:      tokenID,
		Account:      account,
		CheckInTime:  rec.CheckInTime,
		CheckOutTime: now.Unix(),
		VerifiedAt:   now.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"event_id":       eventID,
		"account":        account,
		"token_id":       tokenID,
		"check_in_time":  rec.CheckInTime,
		"check_out_time": now.Unix(),
	})
}

// Record returns the core attendance state for one (event, account)
// pair. A pair that never checked in yields the zero record, so clients
// always get a definite answer.
func (h *AttendanceHandler) Record(c echo.Context) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	account := normalizeAccount(c.Param("account"))

	rec, err := h.Core.Record(eventID, account)
	if err != nil {
		return protocolJSON(c, err)
	}

	status := "never_checked_in"
	switch {
	case rec.Completed:
		status = "completed"
	case rec.CheckInTime != 0:
		status = "checked_in"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":      eventID,
		"account":       account,
		"check_in_time": rec.CheckInTime,
		"completed":     rec.Completed,
		"status":        status,
	})
}

// Verified lists an event's completed attendances from the read model.
func (h *AttendanceHandler) Verified(c echo.Context) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.Core.Event(eventID); err != nil {
		return protocolJSON(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rows, err := h.Attendance.ListByEvent(ctx, eventID)
	if err != nil && err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(rows))
	for _, a := range rows {
		out = append(out, echo.Map{
			"account":        a.Account,
			"check_in_time":  a.CheckInTime,
			"check_out_time": a.CheckOutTime,
			"token_id":       a.TokenID,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":   eventID,
		"attendance": out,
	})
}

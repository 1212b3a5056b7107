package router

// This file registers the authenticated protocol surface: the owner's
// organizer registry, event creation by organizers, and the attendee
// check-in / check-out flow. Authorization decisions (owner-only,
// organizer-only) are made by the protocol core at call time, so the
// routes only require a valid session.

import (
	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/handler"
	"github.com/geoproof/proof-of-attendance/internal/middleware"
)

// RegisterOrganizers registers the owner-only organizer registry
// endpoints under /v1.
func RegisterOrganizers(e *echo.Echo, o *handler.OrganizerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAccount(),
	)
	g.POST("/organizers", o.Grant)
	g.DELETE("/organizers/:account", o.Revoke)
}

// RegisterProtocol registers event creation and the two-phase
// attendance flow under /v1. All routes require a valid JWT; the core
// rejects callers that lack the needed capability.
func RegisterProtocol(e *echo.Echo, ev *handler.EventHandler, at *handler.AttendanceHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAccount(),
	)

	// ---- Events ----
	g.POST("/events", ev.Create)

	// ---- Attendance ----
	g.POST("/events/:id/checkin", at.CheckIn)
	g.POST("/events/:id/checkout", at.CheckOut)
}

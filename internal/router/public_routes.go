package router

import (
	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints. These
// routes return ledger entries, attendance state and credentials
// without any JWT middleware so wallets and dashboards can read them
// as guests.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, o *handler.OrganizerHandler, at *handler.AttendanceHandler) {
	// Full ledger in creation order, straight from the core.
	e.GET("/v1/events", b.ListEvents)
	// One ledger entry plus its live admission count.
	e.GET("/v1/events/:id", b.GetEvent)
	// Paged search over the mirror with name/organizer/time filters.
	e.GET("/v1/search/events", b.SearchEvents)

	// Attendance state for one (event, account) pair, and the verified
	// list for an event.
	e.GET("/v1/events/:id/attendance/:account", at.Record)
	e.GET("/v1/events/:id/attendance", at.Verified)

	// Credential lookups: by token id and by owning account.
	e.GET("/v1/credentials/:id", b.GetCredential)
	e.GET("/v1/accounts/:account/credentials", b.AccountCredentials)

	// Organizer views: capability status and created events.
	e.GET("/v1/organizers/:account", o.Status)
	e.GET("/v1/organizers/:account/events", b.OrganizerEvents)

	// Issuer totals.
	e.GET("/v1/stats", b.Stats)
}

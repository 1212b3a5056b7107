package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/model"
	"github.com/geoproof/proof-of-attendance/internal/protocol"
	"github.com/geoproof/proof-of-attendance/internal/repository"
)

// BrowseHandler serves the public read side. Listings and search run
// against the MySQL mirror; anything that must be exact (event detail,
// credential ownership, admission counts) reads the core directly.
type BrowseHandler struct {
	Core        *protocol.Protocol
	Events      *repository.EventRepo
	Credentials *repository.CredentialRepo
}

func NewBrowseHandler(core *protocol.Protocol, ev *repository.EventRepo, cr *repository.CredentialRepo) *BrowseHandler {
	return &BrowseHandler{Core: core, Events: ev, Credentials: cr}
}

// ListEvents returns the full ledger in creation order.
func (h *BrowseHandler) ListEvents(c echo.Context) error {
	events := h.Core.Events()
	out := make([]eventResp, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventResp(ev))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out, "total": len(out)})
}

// GetEvent returns one ledger entry plus its live admission count.
func (h *BrowseHandler) GetEvent(c echo.Context) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ev, err := h.Core.Event(eventID)
	if err != nil {
		return protocolJSON(c, err)
	}
	resp := toEventResp(ev)
	return c.JSON(http.StatusOK, echo.Map{
		"event":    resp,
		"admitted": h.Core.Admitted(eventID),
	})
}

// SearchEvents pages through the mirror with optional name/organizer
// filters and a time filter (upcoming, active, any).
func (h *BrowseHandler) SearchEvents(c echo.Context) error {
	q := repository.EventSearchQuery{
		Name:       c.QueryParam("name"),
		Organizer:  c.QueryParam("organizer"),
		TimeFilter: c.QueryParam("when"),
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	rows, total, err := h.Events.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	out := make([]eventResp, 0, len(rows))
	for _, m := range rows {
		out = append(out, mirrorEventResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out, "total": total})
}

// OrganizerEvents lists every event one organizer created, from the
// mirror, newest first.
func (h *BrowseHandler) OrganizerEvents(c echo.Context) error {
	organizer := normalizeAccount(c.Param("account"))
	if organizer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account required"})
	}
	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	rows, err := h.Events.ListByOrganizer(ctx, organizer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]eventResp, 0, len(rows))
	for _, m := range rows {
		out = append(out, mirrorEventResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"organizer":    organizer,
		"is_organizer": h.Core.IsOrganizer(organizer),
		"events":       out,
	})
}

// GetCredential resolves one credential. Ownership comes from the core
// issuer; the mirror row, when present, adds the event and timing.
func (h *BrowseHandler) GetCredential(c echo.Context) error {
	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token id"})
	}
	owner, ok := h.Core.OwnerOf(tokenID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "credential not found"})
	}

	resp := echo.Map{"token_id": tokenID, "account": owner}
	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	if row, err := h.Credentials.GetByTokenID(ctx, tokenID); err == nil {
		resp["event_id"] = row.EventID
		resp["issued_at"] = row.IssuedAt
	}
	return c.JSON(http.StatusOK, resp)
}

// AccountCredentials lists every credential minted to one account, from
// the mirror.
func (h *BrowseHandler) AccountCredentials(c echo.Context) error {
	account := normalizeAccount(c.Param("account"))
	if account == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account required"})
	}
	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	rows, err := h.Credentials.ListByAccount(ctx, account)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(rows))
	for _, cr := range rows {
		out = append(out, echo.Map{
			"token_id":  cr.TokenID,
			"event_id":  cr.EventID,
			"account":   cr.Account,
			"issued_at": cr.IssuedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"account": account, "credentials": out})
}

// Stats reports issuer totals.
func (h *BrowseHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"events":      len(h.Core.Events()),
		"credentials": h.Core.CredentialCount(),
	})
}

// mirrorEventResp converts a mirror row into the wire shape shared with
// core reads.
func mirrorEventResp(m model.Event) eventResp {
	lat := protocol.Coordinate{Magnitude: m.LatMagnitude, Negative: m.LatNegative}
	lon := protocol.Coordinate{Magnitude: m.LonMagnitude, Negative: m.LonNegative}
	return eventResp{
		ID:             m.EventID,
		Name:           m.Name,
		Description:    m.Description,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Latitude:       toCoordinateResp(lat),
		Longitude:      toCoordinateResp(lon),
		Radius:         m.Radius,
		MaxAttendees:   m.MaxAttendees,
		MinStayMinutes: m.MinStayMinutes,
		Organizer:      m.Organizer,
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/protocol"
)

// OrganizerHandler exposes the owner-only organizer registry. Grants
// and revocations act on the live registry and take effect on the next
// protocol call; no tokens need to be reissued.
type OrganizerHandler struct {
	Core *protocol.Protocol
}

func NewOrganizerHandler(core *protocol.Protocol) *OrganizerHandler {
	return &OrganizerHandler{Core: core}
}

type organizerReq struct {
	Address string `json:"address"`
}

// Grant adds an account to the organizer registry. Owner only.
func (h *OrganizerHandler) Grant(c echo.Context) error {
	caller, err := getAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req organizerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := normalizeAccount(req.Address)
	if target == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "address required"})
	}
	if err := h.Core.AddOrganizer(caller, target); err != nil {
		return protocolJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"address": target, "is_organizer": true})
}

// Revoke removes an account from the organizer registry. Owner only.
// Revoking an account that was never granted succeeds and changes
// nothing.
func (h *OrganizerHandler) Revoke(c echo.Context) error {
	caller, err := getAccount(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	target := normalizeAccount(c.Param("account"))
	if target == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account required"})
	}
	if err := h.Core.RemoveOrganizer(caller, target); err != nil {
		return protocolJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"address": target, "is_organizer": false})
}

// Status reports whether an account currently holds the organizer
// capability. Public: wallets use it to decide whether to show the
// event-creation UI.
func (h *OrganizerHandler) Status(c echo.Context) error {
	target := normalizeAccount(c.Param("account"))
	if target == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account required"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"address":      target,
		"is_organizer": h.Core.IsOrganizer(target),
	})
}

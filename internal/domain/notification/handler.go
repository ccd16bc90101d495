package notification

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mynotif/mynotif/internal/platform/auth"
)

// Handler exposes the manual campaign trigger.
type Handler struct {
	engine *Engine
}

// NewHandler creates a new notification handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes registers notification routes on the authenticated group.
// The trigger is restricted to staff accounts.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/notifications/expiring-soon", h.TriggerExpiringSoon, auth.RequireRole("admin"))
}

func (h *Handler) TriggerExpiringSoon(c echo.Context) error {
	if err := h.engine.Run(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

package device

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mynotif/mynotif/internal/platform/auth"
)

// Handler provides HTTP endpoints for device subscription registration.
type Handler struct {
	svc *Service
}

// NewHandler creates a new device handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers device routes on the authenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/devices", h.Register)
	api.GET("/devices", h.Get)
	api.DELETE("/devices", h.Unregister)
}

type registerRequest struct {
	SubscriptionID string `json:"subscription_id"`
}

func (h *Handler) Register(c echo.Context) error {
	accountID, err := requestAccountID(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	sub, err := h.svc.Register(c.Request().Context(), accountID, req.SubscriptionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sub)
}

func (h *Handler) Get(c echo.Context) error {
	accountID, err := requestAccountID(c)
	if err != nil {
		return err
	}
	sub, err := h.svc.Get(c.Request().Context(), accountID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no device registered")
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *Handler) Unregister(c echo.Context) error {
	accountID, err := requestAccountID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Unregister(c.Request().Context(), accountID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func requestAccountID(c echo.Context) (uuid.UUID, error) {
	raw := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid account identity")
	}
	return id, nil
}

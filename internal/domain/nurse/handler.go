package nurse

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mynotif/mynotif/internal/platform/auth"
)

// Handler provides HTTP endpoints for the nurse profile and patient links.
type Handler struct {
	svc *Service
}

// NewHandler creates a new nurse handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers nurse routes on the authenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/nurses/me", h.Me)
	api.PUT("/nurses/me", h.UpdateProfile)
	api.POST("/nurses/patients/:patientId", h.AttachPatient)
	api.DELETE("/nurses/patients/:patientId", h.DetachPatient)
}

func (h *Handler) Me(c echo.Context) error {
	accountID, err := requestAccountID(c)
	if err != nil {
		return err
	}
	n, err := h.svc.GetWithPatients(c.Request().Context(), accountID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	accountID, err := requestAccountID(c)
	if err != nil {
		return err
	}
	var upd ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := h.svc.UpdateProfile(c.Request().Context(), accountID, upd)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) AttachPatient(c echo.Context) error {
	accountID, err := requestAccountID(c)
	if err != nil {
		return err
	}
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	ctx := c.Request().Context()
	n, err := h.svc.EnsureForAccount(ctx, accountID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.svc.AttachPatient(ctx, n.ID, patientID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DetachPatient(c echo.Context) error {
	accountID, err := requestAccountID(c)
	if err != nil {
		return err
	}
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	ctx := c.Request().Context()
	n, err := h.svc.EnsureForAccount(ctx, accountID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.svc.DetachPatient(ctx, n.ID, patientID); err != nil {
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

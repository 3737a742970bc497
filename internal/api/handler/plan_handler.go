package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/energybank/energy-bank/internal/core/ports"
)

// PlanHandler exposes the plan catalog and purchases.
type PlanHandler struct {
	service ports.PlanService
}

func NewPlanHandler(service ports.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

type purchaseRequest struct {
	PlanID string `json:"planId" validate:"required"`
}

// List handles GET /api/plans.
//
// @Summary      List purchasable power plans
// @Tags         plans
// @Produce      json
// @Success      200  {array}  domain.Plan
// @Router       /api/plans [get]
func (h *PlanHandler) List(c echo.Context) error {
	plans, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plans)
}

// Purchase handles POST /api/plans/purchase.
//
// @Summary      Purchase a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purchaseRequest  true  "Plan to purchase"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/plans/purchase [post]
func (h *PlanHandler) Purchase(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Purchase(c.Request().Context(), userID, req.PlanID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/energybank/energy-bank/internal/core/ports"
)

// MiningHandler handles heartbeat-driven accrual.
type MiningHandler struct {
	service ports.MiningService
}

func NewMiningHandler(service ports.MiningService) *MiningHandler {
	return &MiningHandler{service: service}
}

type heartbeatRequest struct {
	ConnectedSeconds int64 `json:"connectedSeconds" validate:"gte=0"`
}

type heartbeatResponse struct {
	EarnedAmount   decimal.Decimal `json:"earnedAmount"`
	NewBalance     decimal.Decimal `json:"newBalance"`
	EnergyProduced decimal.Decimal `json:"energyProduced"`
	Rank           string          `json:"rank"`
	Bonus          string          `json:"bonus"`
}

// Heartbeat handles POST /api/mining/heartbeat.
//
// @Summary      Report connected time and accrue earnings
// @Tags         mining
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      heartbeatRequest  true  "Elapsed connected seconds"
// @Success      200   {object}  heartbeatResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/mining/heartbeat [post]
func (h *MiningHandler) Heartbeat(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req heartbeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Heartbeat(c.Request().Context(), userID, req.ConnectedSeconds)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, heartbeatResponse{
		EarnedAmount:   result.EarnedAmount,
		NewBalance:     result.NewBalance,
		EnergyProduced: result.EnergyProduced,
		Rank:           string(result.Rank),
		Bonus:          result.Bonus,
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/energybank/energy-bank/internal/core/domain"
	"github.com/energybank/energy-bank/internal/core/ports"
)

// AdminHandler settles pending transactions.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type settleRequest struct {
	Status string `json:"status" validate:"required,oneof=completed failed"`
}

// List handles GET /api/admin/transactions.
//
// @Summary      List all transactions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Transaction
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/transactions [get]
func (h *AdminHandler) List(c echo.Context) error {
	txs, err := h.service.ListTransactions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// Settle handles PATCH /api/admin/transactions/:id.
//
// @Summary      Settle a pending transaction
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Transaction id"
// @Param        body  body      settleRequest  true  "Target status"
// @Success      200   {object}  domain.Transaction
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/admin/transactions/{id} [patch]
func (h *AdminHandler) Settle(c echo.Context) error {
	var req settleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.service.Settle(c.Request().Context(), c.Param("id"), domain.TransactionStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

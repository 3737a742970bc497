package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/energybank/energy-bank/internal/core/ports"
)

// WalletHandler handles user-facing transaction operations.
type WalletHandler struct {
	service ports.WalletService
}

func NewWalletHandler(service ports.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

// The 10-unit withdrawal floor is a boundary rule; the services below never
// re-validate it.
type withdrawRequest struct {
	Amount      float64 `json:"amount"      validate:"required,gte=10"`
	Method      string  `json:"method"      validate:"required"`
	Destination string  `json:"destination" validate:"required"`
}

type depositRequest struct {
	Amount          float64 `json:"amount"          validate:"required,gt=0"`
	TransactionHash string  `json:"transactionHash" validate:"required"`
}

// List handles GET /api/transactions.
//
// @Summary      List the caller's transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Transaction
// @Failure      401  {object}  errorResponse
// @Router       /api/transactions [get]
func (h *WalletHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	txs, err := h.service.ListTransactions(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// Withdraw handles POST /api/transactions/withdraw.
//
// @Summary      Request a withdrawal
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      withdrawRequest  true  "Withdrawal details"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/transactions/withdraw [post]
func (h *WalletHandler) Withdraw(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req withdrawRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.service.Withdraw(c.Request().Context(), userID, ports.WithdrawInput{
		Amount:      decimal.NewFromFloat(req.Amount),
		Method:      req.Method,
		Destination: req.Destination,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tx)
}

// Deposit handles POST /api/transactions/deposit.
//
// @Summary      Report a deposit awaiting confirmation
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      depositRequest  true  "Deposit details"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/transactions/deposit [post]
func (h *WalletHandler) Deposit(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.service.Deposit(c.Request().Context(), userID, ports.DepositInput{
		Amount:          decimal.NewFromFloat(req.Amount),
		TransactionHash: req.TransactionHash,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tx)
}

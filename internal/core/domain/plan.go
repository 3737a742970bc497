package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrPlanNotFound = errors.New("plan not found")

// Plan is an immutable catalog entry. PowerKw is the sole driver of accrual;
// DailyMin/DailyMax are informational bounds shown to buyers.
type Plan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	PowerKw     decimal.Decimal `json:"power_kw"`
	DailyMin    decimal.Decimal `json:"daily_min"`
	DailyMax    decimal.Decimal `json:"daily_max"`
	Description string          `json:"description"`
}

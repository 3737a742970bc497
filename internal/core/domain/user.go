package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrInsufficientFunds = errors.New("insufficient funds")

// User models an account on the platform. Balance and EnergyBalance are kept
// at full decimal precision; EnergyBalance and TotalConnectedTime only ever
// grow. ActivePlanIDs may contain the same plan more than once — stacked
// copies each contribute their power again.
type User struct {
	ID                 string          `json:"id"`
	Email              string          `json:"email"`
	Username           string          `json:"username"`
	PasswordHash       string          `json:"-"`
	Balance            decimal.Decimal `json:"balance"`
	EnergyBalance      decimal.Decimal `json:"energy_balance"`
	TotalConnectedTime int64           `json:"total_connected_time"`
	ActivePlanIDs      []string        `json:"active_plan_ids"`
	IsAdmin            bool            `json:"is_admin"`
	LastHeartbeat      *time.Time      `json:"last_heartbeat,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

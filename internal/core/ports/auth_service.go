package ports

import (
	"context"

	"github.com/energybank/energy-bank/internal/core/domain"
)

type AuthService interface {
	// Register creates an account with zero balances and an empty plan set,
	// returning a signed token alongside the new user.
	Register(ctx context.Context, email, username, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/energybank/energy-bank/internal/core/domain"
)

// AdminOnly rejects requests whose token does not carry the admin capability.
// The sentinel flows to the central error handler, which renders the 403.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isAdmin, _ := c.Get("is_admin").(bool); !isAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

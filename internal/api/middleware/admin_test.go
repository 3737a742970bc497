package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/energybank/energy-bank/internal/core/domain"
)

func runAdminOnly(t *testing.T, isAdmin interface{}) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if isAdmin != nil {
		c.Set("is_admin", isAdmin)
	}

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	return rec, AdminOnly()(next)(c)
}

func TestAdminOnly_AllowsAdmin(t *testing.T) {
	rec, err := runAdminOnly(t, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestAdminOnly_RejectsNonAdmin(t *testing.T) {
	_, err := runAdminOnly(t, false)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
}

func TestAdminOnly_RejectsMissingClaim(t *testing.T) {
	_, err := runAdminOnly(t, nil)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden when claim absent, got %v", err)
	}
}

func TestAdminOnly_RejectsNonBoolClaim(t *testing.T) {
	_, err := runAdminOnly(t, "true")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-bool claim, got %v", err)
	}
}

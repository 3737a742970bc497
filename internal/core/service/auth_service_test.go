package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/energybank/energy-bank/internal/core/domain"
)

const testSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	token, user, err := svc.Register(context.Background(), "miner@example.com", "miner", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if user.ID == "" {
		t.Error("expected an assigned id")
	}
	if !user.Balance.IsZero() || !user.EnergyBalance.IsZero() {
		t.Errorf("new account must start at zero, got %s / %s", user.Balance, user.EnergyBalance)
	}
	if user.IsAdmin {
		t.Error("new account must not be admin")
	}
	if user.PasswordHash == "s3cret" {
		t.Error("password stored in clear")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	if _, _, err := svc.Register(context.Background(), "miner@example.com", "miner", "s3cret"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(context.Background(), "miner@example.com", "other", "s3cret")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	if _, _, err := svc.Register(context.Background(), "miner@example.com", "miner", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "miner@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "miner@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims["user_id"] != user.ID {
		t.Errorf("expected user_id claim %q, got %v", user.ID, claims["user_id"])
	}
	if claims["email"] != "miner@example.com" {
		t.Errorf("unexpected email claim: %v", claims["email"])
	}
	if claims["is_admin"] != false {
		t.Errorf("unexpected is_admin claim: %v", claims["is_admin"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	if _, _, err := svc.Register(context.Background(), "miner@example.com", "miner", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "miner@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	for _, tc := range []struct{ email, username, password string }{
		{"", "miner", "s3cret"},
		{"miner@example.com", "", "s3cret"},
		{"miner@example.com", "miner", ""},
	} {
		_, _, err := svc.Register(context.Background(), tc.email, tc.username, tc.password)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("register(%q, %q, ...): expected ErrInvalidCredentials, got %v", tc.email, tc.username, err)
		}
	}
}

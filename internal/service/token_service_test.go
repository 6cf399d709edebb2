package service

import (
	"errors"
	"testing"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1})
	token, expiresAt, err := svc.GenerateUserJWT(&models.Session{ID: "user_1", Email: "a@b.com"}, "device-a")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatalf("expiry should be set")
	}
	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != "user_1" || claims.DeviceID != "device-a" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	other := NewTokenService(config.JWTConfig{SecretKey: "other-secret"})
	if _, err := other.ParseUserJWT(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestTokenRequiresSession(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{SecretKey: "test-secret"})
	if _, _, err := svc.GenerateUserJWT(nil, "d"); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true}
	if err := validatePassword(policy, "short1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for short password, got %v", err)
	}
	err := validatePassword(policy, "longenough")
	var perr passwordPolicyError
	if !errors.As(err, &perr) || perr.Rule() != "a digit" {
		t.Fatalf("expected missing digit rule, got %v", err)
	}
	if err := validatePassword(policy, "longenough1"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
}

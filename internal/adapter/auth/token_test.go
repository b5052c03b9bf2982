package auth

import (
	"errors"
	"testing"

	"textguard/internal/domain"
)

func TestTokenAuthorizer(t *testing.T) {
	a := NewTokenAuthorizer("secret")

	if err := a.Authorize("secret"); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
	if err := a.Authorize("wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := a.Authorize(""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for empty token, got %v", err)
	}
}

func TestTokenAuthorizer_NoTokenConfigured(t *testing.T) {
	a := NewTokenAuthorizer("")

	if err := a.Authorize(""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Error("an unset admin token must lock mutation entirely")
	}
}

// AngelaMos | 2026
// token_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhaipedapaga/opspilot/internal/config"
	"github.com/abhaipedapaga/opspilot/internal/core"
)

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		Secret:            "test-secret-at-least-32-bytes-long!!",
		AccessTokenExpire: time.Hour,
		Issuer:            "opspilot-api",
		Audience:          "opspilot",
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	cfg := testTokenConfig()
	cfg.Secret = ""

	if _, err := NewTokenManager(cfg); err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m, err := NewTokenManager(testTokenConfig())
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	subject, err := m.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if subject != "user-123" {
		t.Errorf("subject = %q, want %q", subject, "user-123")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	cfg := testTokenConfig()
	cfg.AccessTokenExpire = -time.Minute

	m, err := NewTokenManager(cfg)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = m.Verify(context.Background(), token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer, err := NewTokenManager(testTokenConfig())
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	otherCfg := testTokenConfig()
	otherCfg.Secret = "a-completely-different-signing-secret"

	verifier, err := NewTokenManager(otherCfg)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = verifier.Verify(context.Background(), token)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	m, err := NewTokenManager(testTokenConfig())
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	for _, token := range []string{
		"not-a-token",
		"aaa.bbb.ccc",
		"",
	} {
		if _, err := m.Verify(context.Background(), token); !errors.Is(
			err,
			core.ErrTokenInvalid,
		) {
			t.Errorf("Verify(%q) err = %v, want ErrTokenInvalid", token, err)
		}
	}
}

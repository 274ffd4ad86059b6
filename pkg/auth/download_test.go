package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-that-is-at-least-32-bytes!"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDownloadSigner_SignAndVerify(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewDownloadSigner(testSecret, time.Hour).WithClock(fixedClock(now))

	token, expires, err := s.Sign("report-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !expires.Equal(now.Add(time.Hour)) {
		t.Errorf("expires = %v, want %v", expires, now.Add(time.Hour))
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token %q is not URL safe", token)
	}
	if err := s.Verify(token, "report-1"); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestDownloadSigner_WrongReport(t *testing.T) {
	s := NewDownloadSigner(testSecret, time.Hour)
	token, _, err := s.Sign("report-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := s.Verify(token, "report-2"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDownloadSigner_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewDownloadSigner(testSecret, time.Hour).WithClock(fixedClock(now))
	token, _, err := s.Sign("report-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	later := s.WithClock(fixedClock(now.Add(2 * time.Hour)))
	if err := later.Verify(token, "report-1"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestDownloadSigner_WrongSecret(t *testing.T) {
	token, _, err := NewDownloadSigner(testSecret, time.Hour).Sign("report-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	other := NewDownloadSigner(strings.Repeat("x", 40), time.Hour)
	if err := other.Verify(token, "report-1"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDownloadSigner_RejectsOtherAlgorithms(t *testing.T) {
	s := NewDownloadSigner(testSecret, time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "report-1",
		Audience:  jwt.ClaimStrings{downloadAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if err := s.Verify(signed, "report-1"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for HS512, got %v", err)
	}
}

func TestDownloadSigner_RejectsMissingExpiry(t *testing.T) {
	s := NewDownloadSigner(testSecret, time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "report-1",
		Audience: jwt.ClaimStrings{downloadAudience},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if err := s.Verify(signed, "report-1"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken without exp, got %v", err)
	}
}

func TestDownloadSigner_EmptyInputs(t *testing.T) {
	s := NewDownloadSigner(testSecret, time.Hour)
	if err := s.Verify("", "report-1"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token: got %v", err)
	}
	if err := s.Verify("garbage", ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty id: got %v", err)
	}
	if err := s.Verify("not.a.jwt", "report-1"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v", err)
	}
}

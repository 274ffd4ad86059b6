package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a download token is malformed, expired,
// signed with another key, or issued for a different report.
var ErrInvalidToken = errors.New("invalid download token")

const downloadAudience = "report-download"

// DownloadSigner issues and verifies short-lived HS256 tokens that grant
// access to one report artifact.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewDownloadSigner creates a signer. ttl is the lifetime of issued tokens.
func NewDownloadSigner(secret string, ttl time.Duration) *DownloadSigner {
	return &DownloadSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the signer that reads the time from now.
func (s *DownloadSigner) WithClock(now func() time.Time) *DownloadSigner {
	c := *s
	c.now = now
	return &c
}

// TTL returns the lifetime of issued tokens.
func (s *DownloadSigner) TTL() time.Duration {
	return s.ttl
}

// Sign returns a token for reportID and the time it expires.
func (s *DownloadSigner) Sign(reportID string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   reportID,
		Audience:  jwt.ClaimStrings{downloadAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign download token: %w", err)
	}
	return signed, expires, nil
}

// Verify checks that token is valid, unexpired and bound to reportID.
func (s *DownloadSigner) Verify(token, reportID string) error {
	if token == "" || reportID == "" {
		return ErrInvalidToken
	}
	_, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithAudience(downloadAudience),
		jwt.WithSubject(reportID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

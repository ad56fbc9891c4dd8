package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryHint decodes the bearer token without verifying its signature and
// reports the embedded expiry, when there is one. The backend's verdict is
// authoritative; this only lets the client log that a stored token already
// looks stale before spending a round trip on it. Opaque (non-JWT) tokens
// yield no hint.
func ExpiryHint(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

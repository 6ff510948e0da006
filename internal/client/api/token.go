package api

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoExpiryClaim = errors.New("access token has no exp claim")

// AccessTokenExpiry reads the exp claim from a stored access token without
// verifying the signature. Signature verification is the server's job; the
// client only uses the claim to show session state in the UI.
func AccessTokenExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiryClaim
	}
	return claims.ExpiresAt.Time, nil
}

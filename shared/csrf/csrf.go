// Package csrf implements the double-submit pair the session uses: a random
// token issued in a cookie that every mutating request must echo back in a
// header, which a cross-site request cannot read.
package csrf

import (
	"crypto/rand"
	"encoding/base64"
)

const TokenLength = 32 // bytes

// GenerateToken returns a fresh random token for the csrf cookie.
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// ValidateToken reports whether the header echo matches the cookie token.
// An empty value on either side never matches.
func ValidateToken(cookieToken, headerToken string) bool {
	if cookieToken == "" || headerToken == "" {
		return false
	}
	return cookieToken == headerToken
}

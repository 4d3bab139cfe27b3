package auth

import (
	"encoding/base64"
	"strings"
)

// JWTPayload returns the decoded payload of an unsigned look at a JWT.
// ok is false for opaque tokens.
func JWTPayload(token string) (payload string, ok bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}
	p, err := decodeB64URL(parts[1])
	if err != nil {
		return "", false
	}
	return p, true
}

func decodeB64URL(s string) (string, error) {
	dec, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

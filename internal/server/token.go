package server

import (
	"crypto/rand"
	"fmt"
)

const (
	// TokenLength is the number of characters in a bearer token.
	TokenLength = 32

	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// Largest multiple of len(tokenAlphabet) that fits in a byte. Bytes at or
	// above it are rejected so every symbol stays equally likely.
	tokenRejectAbove = 256 - 256%len(tokenAlphabet)
)

// GenerateToken returns a TokenLength character string drawn uniformly from
// [A-Za-z0-9] using the OS entropy source.
func GenerateToken() (string, error) {
	out := make([]byte, 0, TokenLength)
	buf := make([]byte, TokenLength*2)

	for len(out) < TokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		for _, b := range buf {
			if int(b) >= tokenRejectAbove {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == TokenLength {
				break
			}
		}
	}
	return string(out), nil
}

// ValidToken reports whether s has the shape GenerateToken produces.
func ValidToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

package utils

import (
	"crypto/rand"
	"fmt"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8

	// codeByteLimit is the largest multiple of len(codeAlphabet) that fits
	// in a byte. Bytes at or above it are rejected so every character is
	// equally likely.
	codeByteLimit = 256 - 256%len(codeAlphabet)
)

// GenerateRaffleCode returns a random 8-character alphanumeric code.
// Uniqueness is enforced by the database; callers retry on collision.
func GenerateRaffleCode() (string, error) {
	code := make([]byte, 0, codeLength)
	rnd := make([]byte, codeLength)
	for len(code) < codeLength {
		if _, err := rand.Read(rnd); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		code = appendCodeChars(code, rnd)
	}
	return string(code), nil
}

func appendCodeChars(code, rnd []byte) []byte {
	for _, b := range rnd {
		if len(code) == codeLength {
			break
		}
		if int(b) >= codeByteLimit {
			continue
		}
		code = append(code, codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return code
}

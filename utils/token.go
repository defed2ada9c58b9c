package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

//
// ===========================================================
//  TOKENS
// ===========================================================
//

// GenerateSecureToken returns length random bytes as hex.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

//
// ===========================================================
//  VISITORS
// ===========================================================
//

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
// It returns "" when neither header is present.
func ClientIP(h http.Header) string {
	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	return strings.TrimSpace(h.Get("X-Real-IP"))
}

// HashVisitor is sha256(ip + salt) in hex.
func HashVisitor(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])
}

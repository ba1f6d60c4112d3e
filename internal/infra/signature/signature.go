// Package signature provides keyed message authentication over byte
// strings. It backs both session identifiers and the hashed PII fields in
// the auth audit log.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the HMAC-SHA256 of message under secret.
func Sign(secret, message []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)

	return mac.Sum(nil)
}

// MACHex returns the hex-encoded HMAC-SHA256 of value under secret.
func MACHex(secret, value string) string {
	return hex.EncodeToString(Sign([]byte(secret), []byte(value)))
}

// Verify reports whether mac authenticates message under secret. The
// comparison is constant time regardless of where a mismatch occurs.
func Verify(secret, message, mac []byte) bool {
	return hmac.Equal(Sign(secret, message), mac)
}

// VerifyHex verifies a hex-encoded MAC. A malformed hex string counts as a
// mismatch, not an error.
func VerifyHex(secret, message, macHex string) bool {
	raw, err := hex.DecodeString(macHex)
	if err != nil {
		return false
	}

	return Verify([]byte(secret), []byte(message), raw)
}

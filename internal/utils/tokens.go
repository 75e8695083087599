package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// refreshTokenBytes sizes the opaque refresh token stored on the user row
// and rotated on every /refresh call.
const refreshTokenBytes = 32

// NewRefreshToken returns a 256-bit random token, hex encoded. The value
// is opaque to clients; it is only ever compared against the stored copy.
func NewRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

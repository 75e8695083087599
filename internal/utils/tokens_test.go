package utils

import (
	"encoding/hex"
	"testing"
)

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken() error: %v", err)
	}
	raw, err := hex.DecodeString(a)
	if err != nil {
		t.Fatalf("token is not hex: %v", err)
	}
	if len(raw) != refreshTokenBytes {
		t.Errorf("token = %d bytes, want %d", len(raw), refreshTokenBytes)
	}

	b, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken() error: %v", err)
	}
	if a == b {
		t.Error("two tokens are identical")
	}
}

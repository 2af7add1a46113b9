package tool

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// tokenBytes gives 128 bits of entropy, enough that guessing the link within
// its lifetime is infeasible.
const tokenBytes = 16

// GenerateToken returns the secret URL path segment for the session. The
// token is drawn from the OS entropy source and encoded with a URL-safe
// alphabet without padding.
func GenerateToken() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// no entropy source means no unguessable URL, so do not start
		DefaultLogger.Fatalf("Failed to read from entropy source: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// GenerateRandomUUID returns a non-secret identifier for logs and summaries.
func GenerateRandomUUID() string {
	return uuid.New().String()
}

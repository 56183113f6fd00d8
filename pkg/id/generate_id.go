package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// ApplicationPrefix starts every human-facing application identifier.
const ApplicationPrefix = "LA"

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ApplicationID derives the public identifier from a unique sequence number,
// so two creates can never collide.
func ApplicationID(seq uint64) string {
	return fmt.Sprintf("%s%08d", ApplicationPrefix, seq)
}

// NewSessionID returns a random UUIDv4 string.
func NewSessionID() string { return uuid.NewString() }

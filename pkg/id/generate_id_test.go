package id

import (
	"encoding/hex"
	"regexp"
	"testing"

	"github.com/google/uuid"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if !reHex32.MatchString(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
}

func TestApplicationID(t *testing.T) {
	tests := []struct {
		seq  uint64
		want string
	}{
		{1, "LA00000001"},
		{42, "LA00000042"},
		{123456789, "LA123456789"},
	}
	for _, tt := range tests {
		if got := ApplicationID(tt.seq); got != tt.want {
			t.Fatalf("ApplicationID(%d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestApplicationID_UniquePerSequence(t *testing.T) {
	const n = 500
	seen := make(map[string]struct{}, n)
	for i := uint64(1); i <= n; i++ {
		id := ApplicationID(i)
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id at seq %d: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == b {
		t.Fatalf("session ids repeat: %q", a)
	}
	u, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("not a uuid: %q (%v)", a, err)
	}
	if u.Version() != 4 {
		t.Fatalf("uuid version = %d, want 4", u.Version())
	}
}

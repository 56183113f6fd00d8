package session

import (
	"context"
	"errors"
	"time"

	"mcredit-backend/internal/domain/user"
)

var ErrNotFound = errors.New("session not found")

// Session is server-side login state keyed by an opaque id.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Role      user.Role `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

type Store interface {
	Create(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

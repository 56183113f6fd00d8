package memory

import (
	"context"
	"time"

	"mcredit-backend/internal/domain/user"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	r.s.userMu.Lock()
	defer r.s.userMu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return user.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}

	r.s.userCounter++
	now := time.Now().UTC()
	u.ID = r.s.userCounter
	u.CreatedAt, u.UpdatedAt = now, now
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID uint64) (*user.User, error) {
	r.s.userMu.RLock()
	defer r.s.userMu.RUnlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*user.User, error) {
	r.s.userMu.RLock()
	defer r.s.userMu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, user.ErrNotFound
}

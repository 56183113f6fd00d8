package user

import "context"

type Repository interface {
	// Create fails with ErrDuplicateUsername or ErrDuplicateEmail.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

package gormrepo

import (
	"context"
	"errors"

	userDomain "mcredit-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

// Create checks both unique columns first so the caller learns which one
// clashed; the unique indexes still catch a concurrent insert.
func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&userDomain.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return userDomain.ErrDuplicateUsername
		}
		if err := tx.Model(&userDomain.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return userDomain.ErrDuplicateEmail
		}
		err := tx.Create(u).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return userDomain.ErrDuplicateUsername
		}
		return err
	})
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint64) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).First(&out, userID).Error; err != nil {
		return nil, notFound(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&out).Error; err != nil {
		return nil, notFound(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

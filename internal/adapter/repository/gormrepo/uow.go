package gormrepo

import (
	"context"

	"mcredit-backend/internal/domain/document"
	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/internal/domain/uow"
	"mcredit-backend/internal/domain/user"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:     &LoanRepository{db: tx},
		Documents: &DocumentRepository{db: tx},
		Users:     &UserRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, appID uint64, fn func(r uow.Repos, a *loan.Application) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the application row up-front to prevent lost updates
		a, err := r.Loans.GetByIDForUpdate(ctx, appID)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}

// Migrate creates or updates the tables for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&user.User{}, &loan.Application{}, &document.Document{})
}

package gormrepo

import (
	"context"
	"errors"

	loanDomain "mcredit-backend/internal/domain/loan"
	"mcredit-backend/pkg/id"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Create inserts with a throwaway identifier, then rewrites it from the
// auto-increment id inside the same transaction.
func (r *LoanRepository) Create(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a.ApplicationID = id.NewID32()
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		a.ApplicationID = id.ApplicationID(a.ID)
		return tx.Model(a).Update("application_id", a.ApplicationID).Error
	})
}

func (r *LoanRepository) Save(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, appID uint64) (*loanDomain.Application, error) {
	var out loanDomain.Application
	if err := r.db.WithContext(ctx).First(&out, appID).Error; err != nil {
		return nil, notFound(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, appID uint64) (*loanDomain.Application, error) {
	var out loanDomain.Application
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, appID).Error
	if err != nil {
		return nil, notFound(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByApplicationID(ctx context.Context, applicationID string) (*loanDomain.Application, error) {
	var out loanDomain.Application
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out).Error
	if err != nil {
		return nil, notFound(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Application, error) {
	q := r.db.WithContext(ctx)
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []loanDomain.Application
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

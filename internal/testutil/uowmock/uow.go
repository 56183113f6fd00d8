package uowmock

import (
	"context"
	"errors"

	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, id uint64, fn func(r uow.Repos, a *loan.Application) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every unit directly against repos, loading the locked
// application through repos.Loans.GetByIDForUpdate.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinLoanTxFn: func(ctx context.Context, id uint64, fn func(uow.Repos, *loan.Application) error) error {
			a, err := repos.Loans.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, id uint64, fn func(r uow.Repos, a *loan.Application) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, id, fn)
	}
	return errUnimplemented
}

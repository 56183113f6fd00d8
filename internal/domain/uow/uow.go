package uow

import (
	"context"

	"mcredit-backend/internal/domain/document"
	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/internal/domain/user"
)

// domain/uow/uow.go
type Repos struct {
	Loans     loan.Repository
	Documents document.Repository
	Users     user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application first, then pass it in
	WithinLoanTx(ctx context.Context, id uint64, fn func(r Repos, a *loan.Application) error) error
}

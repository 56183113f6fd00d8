package memory

import (
	"context"
	"sync"

	"mcredit-backend/internal/domain/document"
	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/internal/domain/uow"
	"mcredit-backend/internal/domain/user"
)

// Store keeps every entity in process memory. Readers get copies, so callers
// can only change stored state through Save.
type Store struct {
	users map[uint64]*user.User
	apps  map[uint64]*loan.Application
	docs  map[uint64]*document.Document

	userMu sync.RWMutex
	appMu  sync.RWMutex
	docMu  sync.RWMutex

	// txMu serializes units of work. There is no rollback: a failed unit
	// keeps whatever it saved before the error.
	txMu sync.Mutex

	// Counters for ID generation
	userCounter uint64
	appCounter  uint64
	docCounter  uint64
}

func NewStore() *Store {
	return &Store{
		users: make(map[uint64]*user.User),
		apps:  make(map[uint64]*loan.Application),
		docs:  make(map[uint64]*document.Document),
	}
}

func (s *Store) Loans() *LoanRepository         { return &LoanRepository{s: s} }
func (s *Store) Documents() *DocumentRepository { return &DocumentRepository{s: s} }
func (s *Store) Users() *UserRepository         { return &UserRepository{s: s} }

func (s *Store) repos() uow.Repos {
	return uow.Repos{Loans: s.Loans(), Documents: s.Documents(), Users: s.Users()}
}

// UoW implements uow.UnitOfWork over a Store.
type UoW struct{ s *Store }

func NewUoW(s *Store) *UoW { return &UoW{s: s} }

func (u *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(u.s.repos())
}

func (u *UoW) WithinLoanTx(ctx context.Context, appID uint64, fn func(r uow.Repos, a *loan.Application) error) error {
	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	r := u.s.repos()
	a, err := r.Loans.GetByIDForUpdate(ctx, appID)
	if err != nil {
		return err
	}
	return fn(r, a)
}

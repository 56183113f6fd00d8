package memory

import (
	"context"
	"sort"
	"time"

	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/pkg/id"
)

type LoanRepository struct{ s *Store }

func cloneApp(a *loan.Application) *loan.Application {
	c := *a
	if a.AssignedAgent != nil {
		v := *a.AssignedAgent
		c.AssignedAgent = &v
	}
	if a.KYCScheduledAt != nil {
		v := *a.KYCScheduledAt
		c.KYCScheduledAt = &v
	}
	if a.KYCCompletedAt != nil {
		v := *a.KYCCompletedAt
		c.KYCCompletedAt = &v
	}
	return &c
}

func (r *LoanRepository) Create(_ context.Context, a *loan.Application) error {
	r.s.appMu.Lock()
	defer r.s.appMu.Unlock()

	r.s.appCounter++
	now := time.Now().UTC()
	a.ID = r.s.appCounter
	a.ApplicationID = id.ApplicationID(a.ID)
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.apps[a.ID] = cloneApp(a)
	return nil
}

func (r *LoanRepository) GetByID(_ context.Context, appID uint64) (*loan.Application, error) {
	r.s.appMu.RLock()
	defer r.s.appMu.RUnlock()

	a, ok := r.s.apps[appID]
	if !ok {
		return nil, loan.ErrNotFound
	}
	return cloneApp(a), nil
}

// GetByIDForUpdate relies on the caller holding the store's tx lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, appID uint64) (*loan.Application, error) {
	return r.GetByID(ctx, appID)
}

func (r *LoanRepository) GetByApplicationID(_ context.Context, applicationID string) (*loan.Application, error) {
	r.s.appMu.RLock()
	defer r.s.appMu.RUnlock()

	for _, a := range r.s.apps {
		if a.ApplicationID == applicationID {
			return cloneApp(a), nil
		}
	}
	return nil, loan.ErrNotFound
}

func (r *LoanRepository) List(_ context.Context, f loan.Filter) ([]loan.Application, error) {
	r.s.appMu.RLock()
	defer r.s.appMu.RUnlock()

	out := make([]loan.Application, 0, len(r.s.apps))
	for _, a := range r.s.apps {
		if f.UserID != nil && a.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, *cloneApp(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *LoanRepository) Save(_ context.Context, a *loan.Application) error {
	r.s.appMu.Lock()
	defer r.s.appMu.Unlock()

	if _, ok := r.s.apps[a.ID]; !ok {
		return loan.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	r.s.apps[a.ID] = cloneApp(a)
	return nil
}

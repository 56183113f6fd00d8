package documentmock

import (
	"context"

	domain "mcredit-backend/internal/domain/document"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, d *domain.Document) error
	GetByIDFn           func(ctx context.Context, id uint64) (*domain.Document, error)
	ListByApplicationFn func(ctx context.Context, applicationID uint64) ([]domain.Document, error)
	SaveFn              func(ctx context.Context, d *domain.Document) error
	SupersedeFn         func(ctx context.Context, ids []uint64) error
}

func (m *Repo) Create(ctx context.Context, d *domain.Document) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Document, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.Document, error) {
	if m.ListByApplicationFn != nil {
		return m.ListByApplicationFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, d *domain.Document) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) Supersede(ctx context.Context, ids []uint64) error {
	if m.SupersedeFn != nil {
		return m.SupersedeFn(ctx, ids)
	}
	return nil
}

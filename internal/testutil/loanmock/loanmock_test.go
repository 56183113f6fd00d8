package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "mcredit-backend/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	a := &domain.Application{ApplicationID: "LA00000001"}

	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Application) error {
			called = true
			if gotCtx != ctx || got != a {
				t.Fatalf("Create args not forwarded")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, a); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	if err := (&Repo{}).Create(ctx, a); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_Reads_DefaultToCanceled(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if got, err := m.GetByID(ctx, 1); err != context.Canceled || got != nil {
		t.Fatalf("GetByID default: %+v, %v", got, err)
	}
	if got, err := m.GetByIDForUpdate(ctx, 1); err != context.Canceled || got != nil {
		t.Fatalf("GetByIDForUpdate default: %+v, %v", got, err)
	}
	if got, err := m.GetByApplicationID(ctx, "LA1"); err != context.Canceled || got != nil {
		t.Fatalf("GetByApplicationID default: %+v, %v", got, err)
	}
	if got, err := m.List(ctx, domain.Filter{}); err != context.Canceled || got != nil {
		t.Fatalf("List default: %+v, %v", got, err)
	}
	if err := m.Save(ctx, &domain.Application{}); err != nil {
		t.Fatalf("Save default: %v", err)
	}
}

func TestRepo_GetByIDForUpdate(t *testing.T) {
	ctx := context.Background()
	want := &domain.Application{ID: 5}

	m := &Repo{
		GetByIDForUpdateFn: func(_ context.Context, id uint64) (*domain.Application, error) {
			if id != 5 {
				t.Fatalf("id mismatch: got %d", id)
			}
			return want, nil
		},
	}
	got, err := m.GetByIDForUpdate(ctx, 5)
	if err != nil || got != want {
		t.Fatalf("GetByIDForUpdate: %+v, %v", got, err)
	}
}

func TestRepo_ListForwardsFilter(t *testing.T) {
	uid := uint64(3)
	m := &Repo{
		ListFn: func(_ context.Context, f domain.Filter) ([]domain.Application, error) {
			if f.UserID == nil || *f.UserID != 3 || f.Status != domain.StatusApproved {
				t.Fatalf("filter not forwarded: %+v", f)
			}
			return []domain.Application{{ID: 1}}, nil
		},
	}
	got, err := m.List(context.Background(), domain.Filter{UserID: &uid, Status: domain.StatusApproved})
	if err != nil || len(got) != 1 {
		t.Fatalf("List: %+v, %v", got, err)
	}
}

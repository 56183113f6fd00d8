package loan

import "context"

type Repository interface {
	// Create assigns ID and ApplicationID.
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id uint64) (*Application, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Application, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*Application, error)
	List(ctx context.Context, f Filter) ([]Application, error)
	Save(ctx context.Context, a *Application) error
}

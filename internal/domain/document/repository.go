package document

import "context"

type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uint64) (*Document, error)
	// ListByApplication returns live documents, oldest first.
	ListByApplication(ctx context.Context, applicationID uint64) ([]Document, error)
	Save(ctx context.Context, d *Document) error
	// Supersede retires the live documents with the given ids.
	Supersede(ctx context.Context, ids []uint64) error
}

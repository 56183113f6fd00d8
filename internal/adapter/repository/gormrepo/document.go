package gormrepo

import (
	"context"

	docDomain "mcredit-backend/internal/domain/document"

	"gorm.io/gorm"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *docDomain.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentRepository) Save(ctx context.Context, d *docDomain.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, docID uint64) (*docDomain.Document, error) {
	var out docDomain.Document
	if err := r.db.WithContext(ctx).First(&out, docID).Error; err != nil {
		return nil, notFound(err, docDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *DocumentRepository) ListByApplication(ctx context.Context, applicationID uint64) ([]docDomain.Document, error) {
	var out []docDomain.Document
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// Supersede soft-deletes; superseded rows stay for audit.
func (r *DocumentRepository) Supersede(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&docDomain.Document{}).Error
}

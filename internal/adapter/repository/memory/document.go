package memory

import (
	"context"
	"sort"
	"time"

	"mcredit-backend/internal/domain/document"
)

type DocumentRepository struct{ s *Store }

func cloneDoc(d *document.Document) *document.Document {
	c := *d
	if d.VerifiedBy != nil {
		v := *d.VerifiedBy
		c.VerifiedBy = &v
	}
	if d.VerifiedAt != nil {
		v := *d.VerifiedAt
		c.VerifiedAt = &v
	}
	return &c
}

func (r *DocumentRepository) Create(_ context.Context, d *document.Document) error {
	r.s.docMu.Lock()
	defer r.s.docMu.Unlock()

	r.s.docCounter++
	d.ID = r.s.docCounter
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	r.s.docs[d.ID] = cloneDoc(d)
	return nil
}

func (r *DocumentRepository) GetByID(_ context.Context, docID uint64) (*document.Document, error) {
	r.s.docMu.RLock()
	defer r.s.docMu.RUnlock()

	d, ok := r.s.docs[docID]
	if !ok || d.DeletedAt.Valid {
		return nil, document.ErrNotFound
	}
	return cloneDoc(d), nil
}

func (r *DocumentRepository) ListByApplication(_ context.Context, applicationID uint64) ([]document.Document, error) {
	r.s.docMu.RLock()
	defer r.s.docMu.RUnlock()

	var out []document.Document
	for _, d := range r.s.docs {
		if d.ApplicationID == applicationID && !d.DeletedAt.Valid {
			out = append(out, *cloneDoc(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DocumentRepository) Save(_ context.Context, d *document.Document) error {
	r.s.docMu.Lock()
	defer r.s.docMu.Unlock()

	cur, ok := r.s.docs[d.ID]
	if !ok || cur.DeletedAt.Valid {
		return document.ErrNotFound
	}
	r.s.docs[d.ID] = cloneDoc(d)
	return nil
}

func (r *DocumentRepository) Supersede(_ context.Context, ids []uint64) error {
	r.s.docMu.Lock()
	defer r.s.docMu.Unlock()

	now := time.Now().UTC()
	for _, docID := range ids {
		if d, ok := r.s.docs[docID]; ok && !d.DeletedAt.Valid {
			d.DeletedAt.Time = now
			d.DeletedAt.Valid = true
		}
	}
	return nil
}

package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"mcredit-backend/internal/domain/document"
	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/internal/domain/uow"
	"mcredit-backend/internal/domain/user"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sniffLen is how much of an upload is read to detect its content type.
const sniffLen = 3072

// FileStore persists upload bytes.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// Recorder receives business events for metrics.
type Recorder interface {
	DocumentUploaded(docType string)
	DocumentVerified(status string)
}

type nopRecorder struct{}

func (nopRecorder) DocumentUploaded(string) {}
func (nopRecorder) DocumentVerified(string) {}

type UploadInput struct {
	ApplicationID uint64
	DocumentType  string
	OriginalName  string
	Size          int64
	Content       io.Reader
}

type Usecase struct {
	loans loan.Repository
	docs  document.Repository
	uow   uow.UnitOfWork
	files FileStore
	log   *zap.Logger
	rec   Recorder
	now   func() time.Time

	maxSize int64
}

func NewUsecase(loans loan.Repository, docs document.Repository, u uow.UnitOfWork, files FileStore, log *zap.Logger) *Usecase {
	return &Usecase{
		loans:   loans,
		docs:    docs,
		uow:     u,
		files:   files,
		log:     log,
		rec:     nopRecorder{},
		now:     time.Now,
		maxSize: document.DefaultMaxFileSize,
	}
}

// WithMaxFileSize sets the upload ceiling in bytes. Non-positive values keep
// the current one.
func (u *Usecase) WithMaxFileSize(n int64) *Usecase {
	if n > 0 {
		u.maxSize = n
	}
	return u
}

// MaxFileSize returns the upload ceiling in bytes.
func (u *Usecase) MaxFileSize() int64 { return u.maxSize }

func (u *Usecase) WithRecorder(rec Recorder) *Usecase {
	u.rec = rec
	return u
}

// Upload accepts a file for an application. A new upload retires the live
// document of the same type unless that one is already verified.
func (u *Usecase) Upload(ctx context.Context, actor user.Actor, in UploadInput) (*document.Document, error) {
	typ, err := document.ParseType(in.DocumentType)
	if err != nil {
		return nil, err
	}
	if in.Size > u.maxSize {
		return nil, document.ErrFileTooLarge
	}

	app, err := u.loans.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(app.UserID) {
		return nil, user.ErrForbidden
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	if err := document.CheckUpload(typ, in.Size, u.maxSize, mt.String()); err != nil {
		return nil, err
	}

	name := uuid.NewString() + mt.Extension()
	path, err := u.files.Save(ctx, name, io.MultiReader(bytes.NewReader(head), in.Content))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	d := &document.Document{
		ApplicationID:      app.ID,
		DocumentType:       typ,
		FileName:           name,
		OriginalName:       filepath.Base(in.OriginalName),
		FileSize:           in.Size,
		MimeType:           mt.String(),
		FilePath:           path,
		VerificationStatus: document.VerificationPending,
		UploadedAt:         u.now().UTC(),
	}

	err = u.uow.WithinLoanTx(ctx, app.ID, func(r uow.Repos, a *loan.Application) error {
		if a.Status.Terminal() {
			return loan.ErrTerminalState
		}
		docs, err := r.Documents.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}
		var retire []uint64
		live := make([]document.Document, 0, len(docs)+1)
		for _, old := range docs {
			if old.DocumentType != typ {
				live = append(live, old)
				continue
			}
			if old.VerificationStatus == document.VerificationVerified {
				return document.ErrAlreadyVerified
			}
			retire = append(retire, old.ID)
		}
		if err := r.Documents.Supersede(ctx, retire); err != nil {
			return err
		}
		if err := r.Documents.Create(ctx, d); err != nil {
			return err
		}
		return syncDocumentsUploaded(ctx, r, a, append(live, *d))
	})
	if err != nil {
		if rmErr := u.files.Remove(ctx, path); rmErr != nil {
			u.log.Warn("remove orphaned upload", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	u.rec.DocumentUploaded(string(typ))
	u.log.Info("document uploaded",
		zap.Uint64("application", app.ID),
		zap.String("type", string(typ)),
		zap.String("mime", d.MimeType),
		zap.Int64("size", d.FileSize))
	return d, nil
}

func (u *Usecase) List(ctx context.Context, actor user.Actor, applicationID uint64) ([]document.Document, error) {
	app, err := u.loans.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(app.UserID) {
		return nil, user.ErrForbidden
	}
	docs, err := u.docs.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []document.Document{}
	}
	return docs, nil
}

// Verify records a staff decision on a document and refreshes the
// application's documentsUploaded flag.
func (u *Usecase) Verify(ctx context.Context, actor user.Actor, docID uint64, status, reason string) (*document.Document, error) {
	if !actor.Role.Staff() {
		return nil, user.ErrForbidden
	}
	vs, err := document.ParseVerificationStatus(status)
	if err != nil {
		return nil, err
	}
	d, err := u.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	var out *document.Document
	err = u.uow.WithinLoanTx(ctx, d.ApplicationID, func(r uow.Repos, a *loan.Application) error {
		if a.Status.Terminal() {
			return loan.ErrTerminalState
		}
		// re-read under the application lock
		cur, err := r.Documents.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		if err := cur.Verify(vs, actor.UserID, reason, u.now().UTC()); err != nil {
			return err
		}
		if err := r.Documents.Save(ctx, cur); err != nil {
			return err
		}
		out = cur
		docs, err := r.Documents.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}
		return syncDocumentsUploaded(ctx, r, a, docs)
	})
	if err != nil {
		return nil, err
	}

	u.rec.DocumentVerified(string(vs))
	u.log.Info("document verified",
		zap.Uint64("document", out.ID),
		zap.String("status", string(vs)),
		zap.Uint64("by", actor.UserID))
	return out, nil
}

func syncDocumentsUploaded(ctx context.Context, r uow.Repos, a *loan.Application, docs []document.Document) error {
	complete := document.Complete(docs)
	if a.DocumentsUploaded == complete {
		return nil
	}
	a.DocumentsUploaded = complete
	return r.Loans.Save(ctx, a)
}

package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"mcredit-backend/internal/adapter/repository/memory"
	"mcredit-backend/internal/domain/document"
	"mcredit-backend/internal/domain/loan"
	"mcredit-backend/internal/domain/user"

	"go.uber.org/zap/zaptest"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

	owner    = user.Actor{UserID: 1, Role: user.RoleCustomer}
	stranger = user.Actor{UserID: 2, Role: user.RoleCustomer}
	agent    = user.Actor{UserID: 3, Role: user.RoleAgent}
)

type memFiles struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string
}

func (m *memFiles) Save(_ context.Context, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files["uploads/"+name] = b
	return "uploads/" + name, nil
}

func (m *memFiles) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	m.removed = append(m.removed, path)
	return nil
}

type fixture struct {
	uc    *Usecase
	store *memory.Store
	files *memFiles
	app   *loan.Application
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	files := &memFiles{files: map[string][]byte{}}
	uc := NewUsecase(st.Loans(), st.Documents(), memory.NewUoW(st), files, zaptest.NewLogger(t))

	app := &loan.Application{UserID: owner.UserID, Status: loan.StatusPending, KYCStatus: loan.KYCPending}
	if err := st.Loans().Create(context.Background(), app); err != nil {
		t.Fatal(err)
	}
	return &fixture{uc: uc, store: st, files: files, app: app}
}

func (f *fixture) upload(actor user.Actor, typ string, content []byte) (*document.Document, error) {
	return f.uc.Upload(context.Background(), actor, UploadInput{
		ApplicationID: f.app.ID,
		DocumentType:  typ,
		OriginalName:  "../../etc/scan",
		Size:          int64(len(content)),
		Content:       bytes.NewReader(content),
	})
}

func TestUpload_StoresFileAndRecord(t *testing.T) {
	f := newFixture(t)

	d, err := f.upload(owner, "pan_card", pdfBytes)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if d.VerificationStatus != document.VerificationPending || d.MimeType != "application/pdf" {
		t.Fatalf("unexpected document: %+v", d)
	}
	if !strings.HasSuffix(d.FileName, ".pdf") || d.OriginalName != "scan" {
		t.Fatalf("names: file=%q original=%q", d.FileName, d.OriginalName)
	}
	if got := f.files.files[d.FilePath]; !bytes.Equal(got, pdfBytes) {
		t.Fatalf("stored bytes differ: %q", got)
	}

	docs, err := f.uc.List(context.Background(), owner, f.app.ID)
	if err != nil || len(docs) != 1 {
		t.Fatalf("List: %+v, %v", docs, err)
	}
}

func TestUpload_Rejections(t *testing.T) {
	f := newFixture(t)

	if _, err := f.upload(owner, "photo", pdfBytes); !errors.Is(err, document.ErrUnsupportedType) {
		t.Fatalf("pdf as photo: want ErrUnsupportedType, got %v", err)
	}
	if _, err := f.upload(owner, "income_proof", []byte("just some text")); !errors.Is(err, document.ErrUnsupportedType) {
		t.Fatalf("text: want ErrUnsupportedType, got %v", err)
	}
	if _, err := f.upload(owner, "selfie", pngBytes); !errors.Is(err, document.ErrInvalidType) {
		t.Fatalf("unknown type: want ErrInvalidType, got %v", err)
	}
	if _, err := f.upload(stranger, "photo", pngBytes); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("stranger: want ErrForbidden, got %v", err)
	}

	_, err := f.uc.Upload(context.Background(), owner, UploadInput{
		ApplicationID: f.app.ID,
		DocumentType:  "photo",
		Size:          document.DefaultMaxFileSize + 1,
		Content:       bytes.NewReader(pngBytes),
	})
	if !errors.Is(err, document.ErrFileTooLarge) {
		t.Fatalf("oversize: want ErrFileTooLarge, got %v", err)
	}

	_, err = f.uc.Upload(context.Background(), owner, UploadInput{ApplicationID: 999, DocumentType: "photo", Content: bytes.NewReader(pngBytes)})
	if !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("missing application: want ErrNotFound, got %v", err)
	}
	if len(f.files.files) != 0 {
		t.Fatalf("rejected uploads must not be stored: %v", f.files.files)
	}
}

func TestUpload_SupersedesPendingSameType(t *testing.T) {
	f := newFixture(t)

	first, err := f.upload(owner, "photo", pngBytes)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.upload(owner, "photo", pngBytes)
	if err != nil {
		t.Fatalf("re-upload: %v", err)
	}

	docs, _ := f.uc.List(context.Background(), owner, f.app.ID)
	if len(docs) != 1 || docs[0].ID != second.ID {
		t.Fatalf("expected only the newest photo, got %+v", docs)
	}
	if _, err := f.store.Documents().GetByID(context.Background(), first.ID); !errors.Is(err, document.ErrNotFound) {
		t.Fatalf("first photo should be superseded, got %v", err)
	}
}

func TestUpload_ConflictAfterVerification(t *testing.T) {
	f := newFixture(t)

	d, _ := f.upload(owner, "signature", pngBytes)
	if _, err := f.uc.Verify(context.Background(), agent, d.ID, "verified", ""); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if _, err := f.upload(owner, "signature", pngBytes); !errors.Is(err, document.ErrAlreadyVerified) {
		t.Fatalf("want ErrAlreadyVerified, got %v", err)
	}
	if len(f.files.removed) != 1 {
		t.Fatalf("stored file of refused upload should be removed, removed=%v", f.files.removed)
	}
}

func TestUpload_FlipsDocumentsUploadedWhenComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var photoID uint64
	for i, typ := range document.Required {
		content := pdfBytes
		if typ == document.TypePhoto || typ == document.TypeSignature {
			content = pngBytes
		}
		d, err := f.upload(owner, string(typ), content)
		if err != nil {
			t.Fatalf("upload %s: %v", typ, err)
		}
		if typ == document.TypePhoto {
			photoID = d.ID
		}
		a, _ := f.store.Loans().GetByID(ctx, f.app.ID)
		last := i == len(document.Required)-1
		if a.DocumentsUploaded != last {
			t.Fatalf("after %s documentsUploaded = %v, want %v", typ, a.DocumentsUploaded, last)
		}
	}

	if _, err := f.uc.Verify(ctx, agent, photoID, "rejected", "face not visible"); err != nil {
		t.Fatalf("Verify reject: %v", err)
	}
	a, _ := f.store.Loans().GetByID(ctx, f.app.ID)
	if a.DocumentsUploaded {
		t.Fatalf("rejected photo should clear documentsUploaded")
	}
}

func TestVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d, _ := f.upload(owner, "bank_statement", pdfBytes)

	if _, err := f.uc.Verify(ctx, owner, d.ID, "verified", ""); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("customer: want ErrForbidden, got %v", err)
	}
	if _, err := f.uc.Verify(ctx, agent, d.ID, "maybe", ""); !errors.Is(err, document.ErrInvalidStatus) {
		t.Fatalf("bad status: want ErrInvalidStatus, got %v", err)
	}
	if _, err := f.uc.Verify(ctx, agent, 999, "verified", ""); !errors.Is(err, document.ErrNotFound) {
		t.Fatalf("missing: want ErrNotFound, got %v", err)
	}
	if _, err := f.uc.Verify(ctx, agent, d.ID, "rejected", ""); !errors.Is(err, document.ErrReasonRequired) {
		t.Fatalf("no reason: want ErrReasonRequired, got %v", err)
	}

	got, err := f.uc.Verify(ctx, agent, d.ID, "rejected", "older than 3 months")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.VerifiedBy == nil || *got.VerifiedBy != agent.UserID || got.VerifiedAt == nil || got.RejectionReason == "" {
		t.Fatalf("verification fields: %+v", got)
	}

	got, _ = f.uc.Verify(ctx, agent, d.ID, "verified", "")
	if got.RejectionReason != "" {
		t.Fatalf("verifying should clear the reason: %+v", got)
	}
}

func TestList_Forbidden(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.List(context.Background(), stranger, f.app.ID); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	docs, err := f.uc.List(context.Background(), agent, f.app.ID)
	if err != nil || docs == nil || len(docs) != 0 {
		t.Fatalf("agent empty list: %+v, %v", docs, err)
	}
}

func TestUpload_ConfiguredMaxFileSize(t *testing.T) {
	f := newFixture(t)
	f.uc.WithMaxFileSize(1 << 20)
	if got := f.uc.MaxFileSize(); got != 1<<20 {
		t.Fatalf("MaxFileSize = %d", got)
	}

	big := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 3<<19)...)
	if _, err := f.upload(owner, "photo", big); !errors.Is(err, document.ErrFileTooLarge) {
		t.Fatalf("1.5 MiB with 1 MiB limit: want ErrFileTooLarge, got %v", err)
	}
	if _, err := f.upload(owner, "photo", pngBytes); err != nil {
		t.Fatalf("small upload: %v", err)
	}

	// non-positive values keep the current ceiling
	f.uc.WithMaxFileSize(0)
	if got := f.uc.MaxFileSize(); got != 1<<20 {
		t.Fatalf("MaxFileSize after zero = %d", got)
	}
}

func TestTerminalApplicationRefusesDocumentChanges(t *testing.T) {
	for _, st := range []loan.Status{loan.StatusRejected, loan.StatusDisbursed} {
		t.Run(string(st), func(t *testing.T) {
			f := newFixture(t)
			d, err := f.upload(owner, "photo", pngBytes)
			if err != nil {
				t.Fatal(err)
			}

			f.app.Status = st
			if err := f.store.Loans().Save(context.Background(), f.app); err != nil {
				t.Fatal(err)
			}

			if _, err := f.upload(owner, "pan_card", pdfBytes); !errors.Is(err, loan.ErrTerminalState) {
				t.Fatalf("upload: want ErrTerminalState, got %v", err)
			}
			if len(f.files.removed) != 1 {
				t.Fatalf("refused upload should be removed, removed=%v", f.files.removed)
			}
			if _, err := f.uc.Verify(context.Background(), agent, d.ID, "verified", ""); !errors.Is(err, loan.ErrTerminalState) {
				t.Fatalf("verify: want ErrTerminalState, got %v", err)
			}
			cur, err := f.store.Documents().GetByID(context.Background(), d.ID)
			if err != nil || cur.VerificationStatus != document.VerificationPending {
				t.Fatalf("document changed: %+v, %v", cur, err)
			}
		})
	}
}

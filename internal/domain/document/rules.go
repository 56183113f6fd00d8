package document

import (
	"strings"
	"time"
)

var (
	imagesOnly  = []string{"image/"}
	imagesOrPDF = []string{"image/", "application/pdf"}
)

var acceptSets = map[Type][]string{
	TypePhoto:         imagesOnly,
	TypeAadharCard:    imagesOrPDF,
	TypePANCard:       imagesOrPDF,
	TypeAddressProof:  imagesOrPDF,
	TypeIncomeProof:   imagesOrPDF,
	TypeBankStatement: imagesOrPDF,
	TypeSignature:     imagesOnly,
	TypeOther:         imagesOrPDF,
}

// Required lists the types an application needs before documentsUploaded flips.
var Required = []Type{
	TypePhoto,
	TypeAadharCard,
	TypePANCard,
	TypeAddressProof,
	TypeIncomeProof,
	TypeBankStatement,
	TypeSignature,
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := acceptSets[t]; !ok {
		return "", ErrInvalidType
	}
	return t, nil
}

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch v := VerificationStatus(s); v {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return v, nil
	}
	return "", ErrInvalidStatus
}

// CheckUpload enforces the size ceiling and the per-type accept set.
// A non-positive limit means DefaultMaxFileSize.
func CheckUpload(t Type, size, limit int64, mimeType string) error {
	accept, ok := acceptSets[t]
	if !ok {
		return ErrInvalidType
	}
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if size > limit {
		return ErrFileTooLarge
	}
	mt := strings.ToLower(mimeType)
	for _, prefix := range accept {
		if strings.HasPrefix(mt, prefix) {
			return nil
		}
	}
	return ErrUnsupportedType
}

// Verify records a reviewer decision. Verifying clears any old reason.
func (d *Document) Verify(status VerificationStatus, by uint64, reason string, at time.Time) error {
	switch status {
	case VerificationVerified:
		d.RejectionReason = ""
	case VerificationRejected:
		if strings.TrimSpace(reason) == "" {
			return ErrReasonRequired
		}
		d.RejectionReason = reason
	default:
		return ErrInvalidStatus
	}
	d.VerificationStatus = status
	d.VerifiedBy = &by
	t := at
	d.VerifiedAt = &t
	return nil
}

// Complete reports whether docs cover every required type with a document
// that has not been rejected.
func Complete(docs []Document) bool {
	have := make(map[Type]bool, len(Required))
	for _, d := range docs {
		if d.VerificationStatus != VerificationRejected {
			have[d.DocumentType] = true
		}
	}
	for _, t := range Required {
		if !have[t] {
			return false
		}
	}
	return true
}

package document

import "errors"

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidType     = errors.New("unknown document type")
	ErrInvalidStatus   = errors.New("unknown verification status")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("file type not accepted for this document")
	ErrAlreadyVerified = errors.New("a verified document of this type already exists")
	ErrReasonRequired  = errors.New("rejection reason is required")
)

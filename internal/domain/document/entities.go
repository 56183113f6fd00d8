package document

import (
	"time"

	"gorm.io/gorm"
)

type Type string

const (
	TypePhoto         Type = "photo"
	TypeAadharCard    Type = "aadhar_card"
	TypePANCard       Type = "pan_card"
	TypeAddressProof  Type = "address_proof"
	TypeIncomeProof   Type = "income_proof"
	TypeBankStatement Type = "bank_statement"
	TypeSignature     Type = "signature"
	TypeOther         Type = "other"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// DefaultMaxFileSize is the upload ceiling applied when none is configured.
const DefaultMaxFileSize = 10 << 20

type Document struct {
	ID                 uint64             `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID      uint64             `gorm:"index:idx_documents_application" json:"applicationId"`
	DocumentType       Type               `gorm:"size:32" json:"documentType"`
	FileName           string             `gorm:"size:120" json:"fileName"`
	OriginalName       string             `gorm:"size:255" json:"originalName"`
	FileSize           int64              `json:"fileSize"`
	MimeType           string             `gorm:"size:100" json:"mimeType"`
	FilePath           string             `gorm:"size:500" json:"filePath"`
	VerificationStatus VerificationStatus `gorm:"size:20" json:"verificationStatus"`
	VerifiedBy         *uint64            `json:"verifiedBy"`
	VerifiedAt         *time.Time         `json:"verifiedAt"`
	RejectionReason    string             `gorm:"type:text" json:"rejectionReason,omitempty"`
	UploadedAt         time.Time          `gorm:"autoCreateTime" json:"uploadedAt"`
	// DeletedAt marks a document superseded by a newer upload of the same type.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string { return "documents" }

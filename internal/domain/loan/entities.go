package loan

import (
	"time"
)

type Status string

const (
	StatusPending              Status = "pending"
	StatusUnderReview          Status = "under_review"
	StatusDocumentVerification Status = "document_verification"
	StatusCreditAssessment     Status = "credit_assessment"
	StatusApproved             Status = "approved"
	StatusDisbursed            Status = "disbursed"
	StatusRejected             Status = "rejected"
)

type KYCStatus string

const (
	KYCPending    KYCStatus = "pending"
	KYCInProgress KYCStatus = "in_progress"
	KYCCompleted  KYCStatus = "completed"
	KYCRejected   KYCStatus = "rejected"
)

type Application struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID string `gorm:"size:40;uniqueIndex:ux_loan_applications_application_id" json:"applicationId"`
	UserID        uint64 `gorm:"index:idx_loan_applications_user" json:"userId"`

	FullName       string `gorm:"size:120" json:"fullName"`
	Mobile         string `gorm:"size:20" json:"mobile"`
	Email          string `gorm:"size:160" json:"email"`
	DateOfBirth    string `gorm:"size:10" json:"dateOfBirth"`
	Address        string `gorm:"type:text" json:"address"`
	MonthlyIncome  string `gorm:"size:40" json:"monthlyIncome"`
	EmploymentType string `gorm:"size:40" json:"employmentType"`
	Purpose        string `gorm:"size:80" json:"purpose"`

	LoanAmount      int64 `json:"loanAmount"`
	LoanTenure      int   `json:"loanTenure"`
	ProcessingFees  int64 `json:"processingFees"`
	DailyCollection int64 `json:"dailyCollection"`
	TotalAmount     int64 `json:"totalAmount"`

	Status        Status  `gorm:"size:32;index:idx_loan_applications_status" json:"status"`
	RejectedFrom  Status  `gorm:"size:32" json:"rejectedFrom,omitempty"`
	AssignedAgent *uint64 `json:"assignedAgent"`

	KYCStatus         KYCStatus  `gorm:"size:20" json:"kycStatus"`
	KYCScheduledAt    *time.Time `json:"kycScheduledAt"`
	KYCCompletedAt    *time.Time `json:"kycCompletedAt"`
	DocumentsUploaded bool       `json:"documentsUploaded"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Application) TableName() string { return "loan_applications" }

// ApplySchedule overwrites the derived money fields from the loan amount.
func (a *Application) ApplySchedule(s Schedule) {
	a.LoanAmount = s.LoanAmount
	a.LoanTenure = s.Tenure
	a.DailyCollection = s.DailyCollection
	a.ProcessingFees = s.ProcessingFees
	a.TotalAmount = s.TotalAmount
}

// ExpectedDecisionAt is the estimate shown on the tracker; nothing acts on it.
func (a *Application) ExpectedDecisionAt() time.Time {
	return a.CreatedAt.Add(3 * 24 * time.Hour)
}

// Filter narrows List. Zero values mean "any".
type Filter struct {
	UserID *uint64
	Status Status
}

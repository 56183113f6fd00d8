package loan

import (
	"time"

	"mcredit-backend/internal/domain/loan"
)

type CreateInput struct {
	FullName       string `json:"fullName"`
	Mobile         string `json:"mobile"`
	Email          string `json:"email"`
	DateOfBirth    string `json:"dateOfBirth"`
	Address        string `json:"address"`
	MonthlyIncome  string `json:"monthlyIncome"`
	EmploymentType string `json:"employmentType"`
	Purpose        string `json:"purpose"`
	LoanAmount     int64  `json:"loanAmount"`
}

// TrackingView is what the public tracker returns. Application is only
// filled in for the owner or staff.
type TrackingView struct {
	ApplicationID      string            `json:"applicationId"`
	Status             loan.Status       `json:"status"`
	KYCStatus          loan.KYCStatus    `json:"kycStatus"`
	DocumentsUploaded  bool              `json:"documentsUploaded"`
	Steps              []loan.Step       `json:"steps"`
	ExpectedDecisionAt time.Time         `json:"expectedDecisionAt"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
	Application        *loan.Application `json:"application,omitempty"`
}

func trackingView(a *loan.Application, full bool) *TrackingView {
	v := &TrackingView{
		ApplicationID:      a.ApplicationID,
		Status:             a.Status,
		KYCStatus:          a.KYCStatus,
		DocumentsUploaded:  a.DocumentsUploaded,
		Steps:              loan.Progress(a),
		ExpectedDecisionAt: a.ExpectedDecisionAt(),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if full {
		v.Application = a
	}
	return v
}

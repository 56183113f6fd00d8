package loan

import "time"

func ParseKYCStatus(s string) (KYCStatus, error) {
	switch k := KYCStatus(s); k {
	case KYCPending, KYCInProgress, KYCCompleted, KYCRejected:
		return k, nil
	}
	return "", ErrInvalidKYC
}

// SetKYC applies a KYC sub-status change. Scheduling stamps KYCScheduledAt,
// a final outcome stamps KYCCompletedAt. Completed and rejected are final.
func (a *Application) SetKYC(to KYCStatus, at time.Time) error {
	if a.KYCStatus == KYCCompleted || a.KYCStatus == KYCRejected {
		return ErrInvalidKYC
	}
	switch to {
	case KYCInProgress:
		t := at
		a.KYCScheduledAt = &t
	case KYCCompleted, KYCRejected:
		t := at
		a.KYCCompletedAt = &t
	default:
		return ErrInvalidKYC
	}
	a.KYCStatus = to
	return nil
}

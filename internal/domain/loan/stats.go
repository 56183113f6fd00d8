package loan

type Stats struct {
	TotalApplications int   `json:"totalApplications"`
	ApprovedLoans     int   `json:"approvedLoans"`
	DisbursedAmount   int64 `json:"disbursedAmount"`
	PendingReview     int   `json:"pendingReview"`
}

func Summarize(apps []Application) Stats {
	st := Stats{TotalApplications: len(apps)}
	for i := range apps {
		switch apps[i].Status {
		case StatusApproved:
			st.ApprovedLoans++
		case StatusDisbursed:
			st.DisbursedAmount += apps[i].LoanAmount
		case StatusPending:
			st.PendingReview++
		}
	}
	return st
}

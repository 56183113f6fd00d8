package loan

// canonical lifecycle order; rejected sits outside it.
var canonical = []Status{
	StatusPending,
	StatusUnderReview,
	StatusDocumentVerification,
	StatusCreditAssessment,
	StatusApproved,
	StatusDisbursed,
}

// display steps shown on the tracker. under_review folds into pending.
var displaySteps = []Status{
	StatusPending,
	StatusDocumentVerification,
	StatusCreditAssessment,
	StatusApproved,
	StatusDisbursed,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if st == StatusRejected || StepIndex(st) >= 0 {
		return st, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) Terminal() bool { return s == StatusDisbursed || s == StatusRejected }

// StepIndex is the position in the canonical order, or -1 for rejected/unknown.
func StepIndex(s Status) int {
	for i, c := range canonical {
		if c == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether from -> to is allowed. Nothing leaves a
// terminal state, not even a repeat of the same status.
func CanTransition(from, to Status) error {
	if _, err := ParseStatus(string(to)); err != nil {
		return err
	}
	if from.Terminal() {
		return ErrTerminalState
	}
	if to == StatusRejected || from == to {
		return nil
	}
	if StepIndex(to) < StepIndex(from) {
		return ErrInvalidTransition
	}
	return nil
}

// Transition moves a to the new status, recording where a rejection happened.
// It reports whether anything changed.
func (a *Application) Transition(to Status) (bool, error) {
	if err := CanTransition(a.Status, to); err != nil {
		return false, err
	}
	if a.Status == to {
		return false, nil
	}
	if to == StatusRejected {
		a.RejectedFrom = a.Status
	}
	a.Status = to
	return true, nil
}

type Step struct {
	Status    Status `json:"status"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
	Failed    bool   `json:"failed"`
}

// Progress renders the five tracker steps for a.
func Progress(a *Application) []Step {
	at := a.Status
	rejected := at == StatusRejected
	if rejected {
		at = a.RejectedFrom
	}
	if at == StatusUnderReview || at == "" {
		at = StatusPending
	}

	cur := 0
	for i, s := range displaySteps {
		if s == at {
			cur = i
		}
	}

	out := make([]Step, len(displaySteps))
	for i, s := range displaySteps {
		out[i] = Step{Status: s}
		switch {
		case i < cur:
			out[i].Completed = true
		case i == cur:
			out[i].Current = true
			out[i].Failed = rejected
			out[i].Completed = !rejected && a.Status == StatusDisbursed
		}
	}
	return out
}

package navigation

// Outcome is how a dialog was dismissed.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeConfirmed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// DialogResult is what a modal dialog returns to its caller.
type DialogResult struct {
	Outcome Outcome
	Payload any
}

// ConfirmedResult returns a confirmed result carrying payload.
func ConfirmedResult(payload any) DialogResult {
	return DialogResult{Outcome: OutcomeConfirmed, Payload: payload}
}

// CancelledResult returns a cancelled result.
func CancelledResult() DialogResult {
	return DialogResult{Outcome: OutcomeCancelled}
}

// Confirmed reports whether the dialog was confirmed.
func (r DialogResult) Confirmed() bool {
	return r.Outcome == OutcomeConfirmed
}

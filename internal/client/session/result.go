package session

import "time"

type Outcome int

const (
	OutcomeNoSession Outcome = iota + 1
	OutcomeConfirmed
	OutcomeInconclusive
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoSession:
		return "no-session"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeInconclusive:
		return "inconclusive"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the outcome of one CheckAuth call. Err is set for Inconclusive
// and Rejected and says what the backend (or the store) reported.
type Result struct {
	Outcome Outcome
	Err     error
	At      time.Time
}

package domain

// Outcome is the result of policy evaluation for one query.
type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeWarned  Outcome = "warned"
	OutcomeDenied  Outcome = "denied"
)

// Severity grades how serious a policy finding is.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Verdict is the outcome of policy evaluation. Produced fresh per query,
// never cached.
type Verdict struct {
	Outcome         Outcome
	Severity        Severity
	Message         string
	RestrictedTerms []string
	SensitiveTopics []string
}

// Denied reports whether the verdict blocks the query.
func (v Verdict) Denied() bool {
	return v.Outcome == OutcomeDenied
}

package domain

// Status is the terminal state of the pipeline for one query.
type Status string

const (
	StatusOK      Status = "ok"
	StatusDenied  Status = "denied"
	StatusInvalid Status = "invalid"
)

// Result is the structured outcome of one pipeline run. Every public entry
// point returns a Result rather than raising past its boundary.
type Result struct {
	Status      Status
	Query       string
	Intent      Intent
	Response    string
	ContextUsed bool
}

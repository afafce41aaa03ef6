package domain

// FallbackIntent is the reserved label returned when no domain keyword matches.
const FallbackIntent = "general"

// Confidence is the classifier's confidence tier.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Intent is the coarse topical category assigned to a query.
type Intent struct {
	Label      string
	Confidence Confidence
}

// NewIntent derives the confidence tier from the label: anything other than
// the fallback label counts as a keyword match.
func NewIntent(label string) Intent {
	conf := ConfidenceHigh
	if label == FallbackIntent {
		conf = ConfidenceLow
	}
	return Intent{Label: label, Confidence: conf}
}

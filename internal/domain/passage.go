package domain

// Passage is a unit of retrieved background text with its raw similarity
// score (higher = more similar) and source identifier.
type Passage struct {
	Text   string
	Score  float32
	Source string
}

package compound

// Compound is a single screening record: an identifier, a fingerprint, an
// optional docking score (ground truth, kcal/mol, lower = stronger binding)
// and an optional predicted score attached by the surrogate scorer.
//
// A Compound is treated as immutable once loaded; stages that need to attach
// a prediction do so through copies (Library.WithPredicted).
type Compound struct {
	ID          string
	Fingerprint Fingerprint

	// DockingScore is nil for unscreened compounds.
	DockingScore *float64

	// PredictedScore is nil until the scorer stage has run.
	PredictedScore *float64

	// Meta carries additional dataset columns, passed through unchanged.
	Meta map[string]string
}

// HasScore reports whether the compound carries a ground-truth docking score.
func (c Compound) HasScore() bool { return c.DockingScore != nil }

// HasPrediction reports whether a surrogate prediction has been attached.
func (c Compound) HasPrediction() bool { return c.PredictedScore != nil }

// Score returns the docking score, or 0 when absent; check HasScore first.
func (c Compound) Score() float64 {
	if c.DockingScore == nil {
		return 0
	}
	return *c.DockingScore
}

// Predicted returns the predicted score, or 0 when absent; check
// HasPrediction first.
func (c Compound) Predicted() float64 {
	if c.PredictedScore == nil {
		return 0
	}
	return *c.PredictedScore
}

// ScorePtr returns a pointer to a copy of v, for constructing records.
func ScorePtr(v float64) *float64 { return &v }

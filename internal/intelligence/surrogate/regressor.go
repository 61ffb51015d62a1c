package surrogate

// Regressor predicts docking scores directly from fingerprints.  Lower
// predicted values rank first during selection, matching the docking
// convention that more negative scores bind more strongly.
type Regressor struct {
	forest *forest
}

// NewRegressor constructs an unfitted regressor from cfg.
func NewRegressor(cfg Config) *Regressor {
	cfg.Kind = KindRegressor
	return &Regressor{forest: newForest(cfg)}
}

// Kind returns KindRegressor.
func (r *Regressor) Kind() ModelKind { return KindRegressor }

// Fit trains the forest on raw docking scores.
func (r *Regressor) Fit(X [][]float64, y []float64) error {
	return r.forest.fit(X, y)
}

// Predict returns a docking-score estimate for every row.  An empty input
// yields an empty output.
func (r *Regressor) Predict(X [][]float64) ([]float64, error) {
	return r.forest.predict(X)
}

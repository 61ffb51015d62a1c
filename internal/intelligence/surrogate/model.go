// Package surrogate implements the random-forest surrogate models that stand
// in for exhaustive docking: a classifier that predicts the probability a
// compound would dock below an activity threshold, and a regressor that
// predicts the docking score itself.  Both train on fingerprint feature
// vectors paired with scores from a docked subset and then scan the full
// library orders of magnitude faster than the docking engine.
package surrogate

import (
	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// ModelKind selects the surrogate flavor.
type ModelKind string

const (
	// KindClassifier predicts the probability of activity; lower output
	// means less likely active, so ranking uses the negated probability.
	KindClassifier ModelKind = "classifier"
	// KindRegressor predicts the docking score directly.
	KindRegressor ModelKind = "regressor"
)

// Valid reports whether k names a known model kind.
func (k ModelKind) Valid() bool {
	return k == KindClassifier || k == KindRegressor
}

// Config holds the forest hyperparameters shared by both model kinds.
type Config struct {
	Kind        ModelKind `json:"kind" yaml:"kind"`
	Trees       int       `json:"trees" yaml:"trees"`
	MaxDepth    int       `json:"max_depth" yaml:"max_depth"`
	MinLeafSize int       `json:"min_leaf_size" yaml:"min_leaf_size"`
	// MaxFeatures is the number of candidate features examined per split.
	// Zero means sqrt(p), the usual random-forest default.
	MaxFeatures int `json:"max_features" yaml:"max_features"`
	// ActivePercentile sets the classifier labeling threshold: training
	// scores at or below this percentile are labeled active.  Ignored by
	// the regressor.
	ActivePercentile float64 `json:"active_percentile" yaml:"active_percentile"`
	Seed             int64   `json:"seed" yaml:"seed"`
	// Workers bounds training and prediction parallelism.  Zero means
	// GOMAXPROCS.  Results are identical for any worker count.
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultConfig returns the hyperparameters used by the reference pipeline.
func DefaultConfig() Config {
	return Config{
		Kind:             KindClassifier,
		Trees:            300,
		MaxDepth:         0,
		MinLeafSize:      1,
		MaxFeatures:      0,
		ActivePercentile: 30,
		Seed:             42,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if !c.Kind.Valid() {
		return errors.InvalidParam("unknown model kind").WithDetail(string(c.Kind))
	}
	if c.Trees <= 0 {
		return errors.InvalidParam("trees must be positive")
	}
	if c.MaxDepth < 0 {
		return errors.InvalidParam("max depth must be non-negative")
	}
	if c.MinLeafSize < 1 {
		return errors.InvalidParam("min leaf size must be at least 1")
	}
	if c.MaxFeatures < 0 {
		return errors.InvalidParam("max features must be non-negative")
	}
	if c.Kind == KindClassifier && (c.ActivePercentile <= 0 || c.ActivePercentile >= 100) {
		return errors.InvalidParam("active percentile must be in (0, 100)")
	}
	return nil
}

// Model is the common surrogate contract.  Fit trains on feature matrix X
// (one row per compound) and target vector y; Predict scores unseen rows.
// A classifier's predictions are active-class probabilities in [0, 1]; a
// regressor's predictions are docking-score estimates.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
	Kind() ModelKind
}

// NewModel constructs the surrogate named by cfg.Kind.
func NewModel(cfg Config) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindClassifier:
		return NewClassifier(cfg), nil
	case KindRegressor:
		return NewRegressor(cfg), nil
	default:
		return nil, errors.InvalidParam("unknown model kind").WithDetail(string(cfg.Kind))
	}
}

// checkMatrix validates a feature matrix against the expected width.
// wantCols < 0 skips the width check (first fit).
func checkMatrix(X [][]float64, wantCols int) error {
	if len(X) == 0 {
		return nil
	}
	cols := len(X[0])
	if cols == 0 {
		return errors.New(errors.CodeModelFeatureMismatch, "feature rows are empty")
	}
	if wantCols >= 0 && cols != wantCols {
		return errors.Newf(errors.CodeModelFeatureMismatch,
			"feature width %d does not match model width %d", cols, wantCols)
	}
	for i := range X {
		if len(X[i]) != cols {
			return errors.Newf(errors.CodeModelFeatureMismatch,
				"row %d has %d features, expected %d", i, len(X[i]), cols)
		}
	}
	return nil
}

package surrogate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Classifier predicts the probability that a compound is active, where
// "active" means its docking score falls at or below the ActivePercentile
// of the training scores.  Fit derives the binary labels itself from raw
// scores, so callers train it exactly like the regressor.
type Classifier struct {
	forest    *forest
	threshold float64
}

// NewClassifier constructs an unfitted classifier from cfg.
func NewClassifier(cfg Config) *Classifier {
	cfg.Kind = KindClassifier
	return &Classifier{forest: newForest(cfg)}
}

// Kind returns KindClassifier.
func (c *Classifier) Kind() ModelKind { return KindClassifier }

// Threshold returns the score cutoff learned during Fit.  Scores at or
// below the cutoff were labeled active.
func (c *Classifier) Threshold() float64 { return c.threshold }

// Fit derives activity labels from y at the configured percentile and trains
// the forest on them.  A training set whose labels collapse to a single
// class cannot produce a usable ranking and is rejected.
func (c *Classifier) Fit(X [][]float64, y []float64) error {
	if len(y) == 0 {
		return errors.New(errors.CodeInvalidParam, "training set is empty")
	}
	threshold, labels := LabelActives(y, c.forest.cfg.ActivePercentile)

	var actives int
	for _, l := range labels {
		if l == 1 {
			actives++
		}
	}
	if actives == 0 || actives == len(labels) {
		return errors.Newf(errors.CodeModelDegenerateFit,
			"labeling at percentile %.1f produced a single class (%d/%d active)",
			c.forest.cfg.ActivePercentile, actives, len(labels))
	}

	if err := c.forest.fit(X, labels); err != nil {
		return err
	}
	c.threshold = threshold
	return nil
}

// Predict returns the active-class probability for every row, each in [0, 1].
// An empty input yields an empty output.
func (c *Classifier) Predict(X [][]float64) ([]float64, error) {
	return c.forest.predict(X)
}

// LabelActives computes the percentile cutoff over scores and the derived
// binary labels: 1 where score <= cutoff, else 0.  More negative docking
// scores indicate stronger binding, so the low percentile tail is active.
func LabelActives(scores []float64, percentile float64) (threshold float64, labels []float64) {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	threshold = stat.Quantile(percentile/100, stat.Empirical, sorted, nil)

	labels = make([]float64, len(scores))
	for i, s := range scores {
		if s <= threshold {
			labels[i] = 1
		}
	}
	return threshold, labels
}

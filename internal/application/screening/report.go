package screening

import (
	"fmt"
	"strings"
	"time"

	"github.com/gmseabra/MolDB-Screening/internal/domain/compound"
	"github.com/gmseabra/MolDB-Screening/internal/intelligence/surrogate"
)

// diversityPairBudget caps the pair sample used for the Tanimoto diversity
// estimate so reporting stays cheap on large selections.
const diversityPairBudget = 20000

// TrainReport carries the held-out evaluation of the fitted surrogate.
// Exactly one of Classification or Regression is set, matching the model
// kind.
type TrainReport struct {
	Kind      surrogate.ModelKind
	TrainSize int
	TestSize  int
	// Threshold is the score cutoff the classifier learned; zero for the
	// regressor.
	Threshold      float64
	Classification *surrogate.ClassificationReport
	Regression     *surrogate.RegressionReport
	Elapsed        time.Duration
}

// String renders the training summary on one line.
func (r TrainReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s trained on %d compounds, evaluated on %d", r.Kind, r.TrainSize, r.TestSize)
	if r.Classification != nil {
		fmt.Fprintf(&sb, " (threshold %.3f): %s", r.Threshold, r.Classification)
	}
	if r.Regression != nil {
		fmt.Fprintf(&sb, ": %s", r.Regression)
	}
	return sb.String()
}

// RunReport summarizes a full screening run: how the selected top-K compares
// against a size-matched random draw and the whole scored population, on the
// compounds whose true docking scores are known.
type RunReport struct {
	LibrarySize    int
	FilteredSize   int
	ScoredSize     int
	SelectionSize  int
	Train          TrainReport
	Population     compound.Summary
	TopK           compound.Summary
	RandomBaseline compound.Summary
	// Diversity is the mean pairwise Tanimoto similarity within each set;
	// lower means more chemically diverse.
	TopKDiversity   float64
	RandomDiversity float64
	Elapsed         time.Duration
}

// Render formats the report as a small human-readable table.
func (r RunReport) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "screening run finished in %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "  library: %d records, %d physically valid, %d scored by surrogate\n",
		r.LibrarySize, r.FilteredSize, r.ScoredSize)
	fmt.Fprintf(&sb, "  model:   %s\n", r.Train)
	fmt.Fprintf(&sb, "  selection (%d compounds, known docking scores only):\n", r.SelectionSize)
	fmt.Fprintf(&sb, "    top-K:      %s\n", r.TopK)
	fmt.Fprintf(&sb, "    random:     %s\n", r.RandomBaseline)
	fmt.Fprintf(&sb, "    population: %s\n", r.Population)
	fmt.Fprintf(&sb, "  diversity (mean pairwise Tanimoto): top-K %.3f, random %.3f\n",
		r.TopKDiversity, r.RandomDiversity)
	return sb.String()
}

// buildRunReport compares the biased selection against the random baseline.
func buildRunReport(full *compound.Library, topK, random compound.Selection, train TrainReport, seed int64) RunReport {
	return RunReport{
		ScoredSize:      full.Len(),
		SelectionSize:   len(topK),
		Train:           train,
		Population:      compound.Summarize(full.DockingScores()),
		TopK:            compound.Summarize(topK.DockingScores()),
		RandomBaseline:  compound.Summarize(random.DockingScores()),
		TopKDiversity:   compound.MeanPairwiseTanimoto(topK, diversityPairBudget, seed),
		RandomDiversity: compound.MeanPairwiseTanimoto(random, diversityPairBudget, seed),
	}
}

package compound

import (
	"math/rand"
	"sort"
)

// Selection is a ranked subset of a Library.
type Selection []Compound

// IDs returns the compound identifiers in selection order.
func (s Selection) IDs() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.ID
	}
	return out
}

// PredictedScores returns the predicted scores in selection order.
func (s Selection) PredictedScores() []float64 {
	out := make([]float64, 0, len(s))
	for _, c := range s {
		if c.HasPrediction() {
			out = append(out, *c.PredictedScore)
		}
	}
	return out
}

// DockingScores returns the ground-truth docking scores of selected records
// that carry one.
func (s Selection) DockingScores() []float64 {
	out := make([]float64, 0, len(s))
	for _, c := range s {
		if c.HasScore() {
			out = append(out, *c.DockingScore)
		}
	}
	return out
}

// SelectTop returns the k records with smallest predicted score, ascending
// (more negative = stronger predicted binding), ties broken by original
// library order (stable sort).  Records without a prediction are excluded
// from ranking.  |result| = min(k, number of predicted records).
func (l *Library) SelectTop(k int) Selection {
	if k <= 0 {
		return Selection{}
	}
	idx := make([]int, 0, len(l.records))
	for i, r := range l.records {
		if r.HasPrediction() {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return *l.records[idx[a]].PredictedScore < *l.records[idx[b]].PredictedScore
	})
	if k > len(idx) {
		k = len(idx)
	}
	out := make(Selection, k)
	for i := 0; i < k; i++ {
		out[i] = l.records[idx[i]]
	}
	return out
}

// SelectRandom returns a size-matched random selection of k records drawn
// uniformly without replacement, in original library order.  Used as the
// naive baseline against which the surrogate-biased selection is compared.
func (l *Library) SelectRandom(k int, seed int64) Selection {
	if k <= 0 {
		return Selection{}
	}
	if k > len(l.records) {
		k = len(l.records)
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(l.records))
	idx := append([]int(nil), perm[:k]...)
	sort.Ints(idx)

	out := make(Selection, k)
	for i, j := range idx {
		out[i] = l.records[j]
	}
	return out
}

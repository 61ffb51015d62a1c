package compound

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

func newPairRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Summary holds the descriptive statistics used to compare a biased
// selection against a random baseline and the full population.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Summarize computes descriptive statistics over values.  An empty input
// yields a zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return Summary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Std:    stat.StdDev(sorted, nil),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// String renders the summary as a single line suitable for report tables.
func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.3f std=%.3f min=%.3f q1=%.3f median=%.3f q3=%.3f max=%.3f",
		s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
}

// MeanPairwiseTanimoto estimates the chemical diversity of a record set as
// the mean Tanimoto similarity over record pairs.  For sets larger than
// maxPairs sampled pairs are used so the estimate stays cheap for big
// selections.  Returns 0 for fewer than two records.
func MeanPairwiseTanimoto(records []Compound, maxPairs int, seed int64) float64 {
	n := len(records)
	if n < 2 {
		return 0
	}
	total := n * (n - 1) / 2

	var sum float64
	var count int
	if maxPairs <= 0 || total <= maxPairs {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if t, err := Tanimoto(records[i].Fingerprint, records[j].Fingerprint); err == nil {
					sum += t
					count++
				}
			}
		}
	} else {
		rng := newPairRNG(seed)
		for p := 0; p < maxPairs; p++ {
			i := rng.Intn(n)
			j := rng.Intn(n - 1)
			if j >= i {
				j++
			}
			if t, err := Tanimoto(records[i].Fingerprint, records[j].Fingerprint); err == nil {
				sum += t
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

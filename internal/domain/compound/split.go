package compound

import (
	"math/rand"
	"sort"

	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Sample returns a new Library of n records drawn uniformly without
// replacement.  A fixed seed yields an identical subset on every call.  When
// n ≥ Len the whole library is returned (in original order).
func (l *Library) Sample(n int, seed int64) *Library {
	if n >= len(l.records) {
		return l.subLibrary(l.Records())
	}
	if n <= 0 {
		return l.subLibrary(nil)
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(l.records))
	idx := perm[:n]
	sort.Ints(idx)

	out := make([]Compound, n)
	for i, j := range idx {
		out[i] = l.records[j]
	}
	return l.subLibrary(out)
}

// Split partitions the library into train and test subsets with
// |test| ≈ testFraction·Len.  The two subsets are disjoint and their union is
// the source library; both preserve original relative order.  A fixed seed
// yields an identical partition on every call.
func (l *Library) Split(testFraction float64, seed int64) (train, test *Library, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.InvalidParam("test fraction must be in (0, 1)")
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(l.records))

	nTest := int(float64(len(l.records)) * testFraction)
	testIdx := append([]int(nil), perm[:nTest]...)
	trainIdx := append([]int(nil), perm[nTest:]...)

	return l.fromIndices(trainIdx), l.fromIndices(testIdx), nil
}

// StratifiedSplit partitions the library like Split but preserves the ratio
// of the supplied binary labels in both subsets, as required when training
// the classifier variant on an imbalanced active/inactive labeling.
// labels must have one entry per record.
func (l *Library) StratifiedSplit(labels []bool, testFraction float64, seed int64) (train, test *Library, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.InvalidParam("test fraction must be in (0, 1)")
	}
	if len(labels) != len(l.records) {
		return nil, nil, errors.Newf(errors.CodeInvalidParam,
			"got %d labels for %d records", len(labels), len(l.records))
	}

	var pos, neg []int
	for i, active := range labels {
		if active {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	var trainIdx, testIdx []int
	for _, class := range [][]int{pos, neg} {
		shuffled := append([]int(nil), class...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		nTest := int(float64(len(shuffled)) * testFraction)
		testIdx = append(testIdx, shuffled[:nTest]...)
		trainIdx = append(trainIdx, shuffled[nTest:]...)
	}

	return l.fromIndices(trainIdx), l.fromIndices(testIdx), nil
}

// fromIndices builds a sub-library from record indices, restoring original
// relative order.
func (l *Library) fromIndices(idx []int) *Library {
	sorted := append([]int(nil), idx...)
	sort.Ints(sorted)
	out := make([]Compound, len(sorted))
	for i, j := range sorted {
		out[i] = l.records[j]
	}
	return l.subLibrary(out)
}

package surrogate

import (
	"math"
	"math/rand"
)

// treeNode is one node of a regression tree.  Leaves carry the mean target
// of their training rows; internal nodes split on feature <= threshold.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// regressionTree is a CART-style tree grown by variance reduction.  The
// classifier reuses it on {0,1} targets, where the leaf mean is the
// active-class fraction.
type regressionTree struct {
	root *treeNode
}

// treeParams are the per-tree growth controls.
type treeParams struct {
	maxDepth    int // 0 means unlimited
	minLeafSize int
	maxFeatures int
}

// growTree fits a tree on the rows named by idx.  rng drives the feature
// subsampling at every split, so a tree is fully determined by its seed.
func growTree(X [][]float64, y []float64, idx []int, p treeParams, rng *rand.Rand) *regressionTree {
	return &regressionTree{root: buildNode(X, y, idx, p, rng, 0)}
}

func buildNode(X [][]float64, y []float64, idx []int, p treeParams, rng *rand.Rand, depth int) *treeNode {
	if len(idx) <= p.minLeafSize ||
		(p.maxDepth > 0 && depth >= p.maxDepth) ||
		isPure(y, idx) {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	feature, threshold, ok := bestSplit(X, y, idx, p, rng)
	if !ok {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildNode(X, y, left, p, rng, depth+1),
		right:     buildNode(X, y, right, p, rng, depth+1),
	}
}

// bestSplit scans a random subset of maxFeatures features and returns the
// split minimizing the weighted child variance.  ok is false when no
// candidate feature separates the rows.
func bestSplit(X [][]float64, y []float64, idx []int, p treeParams, rng *rand.Rand) (feature int, threshold float64, ok bool) {
	nFeatures := len(X[idx[0]])
	mtry := p.maxFeatures
	if mtry <= 0 || mtry > nFeatures {
		mtry = int(math.Sqrt(float64(nFeatures)))
		if mtry < 1 {
			mtry = 1
		}
	}

	bestScore := math.Inf(1)
	for _, f := range rng.Perm(nFeatures)[:mtry] {
		t, score, valid := bestThreshold(X, y, idx, f)
		if valid && score < bestScore {
			bestScore = score
			feature = f
			threshold = t
			ok = true
		}
	}
	return feature, threshold, ok
}

// bestThreshold finds the variance-minimizing threshold for one feature.
// Fingerprint features are binary so this usually degenerates to a single
// candidate at 0.5, but the scan handles arbitrary numeric features too.
func bestThreshold(X [][]float64, y []float64, idx []int, feature int) (threshold, score float64, ok bool) {
	values := make([]float64, 0, len(idx))
	seen := map[float64]struct{}{}
	for _, i := range idx {
		v := X[i][feature]
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return 0, 0, false
	}

	score = math.Inf(1)
	for _, v := range values {
		var lSum, lSq, rSum, rSq float64
		var lN, rN int
		for _, i := range idx {
			yi := y[i]
			if X[i][feature] <= v {
				lSum += yi
				lSq += yi * yi
				lN++
			} else {
				rSum += yi
				rSq += yi * yi
				rN++
			}
		}
		if lN == 0 || rN == 0 {
			continue
		}
		// Weighted sum of squared errors around each child mean.
		sse := (lSq - lSum*lSum/float64(lN)) + (rSq - rSum*rSum/float64(rN))
		if sse < score {
			score = sse
			threshold = v
			ok = true
		}
	}
	return threshold, score, ok
}

func (t *regressionTree) predict(row []float64) float64 {
	n := t.root
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func meanAt(y []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func isPure(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

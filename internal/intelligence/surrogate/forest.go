package surrogate

import (
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// forest is the shared random-forest core.  Each tree trains on a bootstrap
// sample drawn from a rand.Rand seeded with cfg.Seed+treeIndex, so the fitted
// ensemble is byte-identical for any worker count.
type forest struct {
	cfg       Config
	trees     []*regressionTree
	nFeatures int
}

func newForest(cfg Config) *forest {
	return &forest{cfg: cfg, nFeatures: -1}
}

func (f *forest) fitted() bool { return len(f.trees) > 0 }

func (f *forest) workers() int {
	if f.cfg.Workers > 0 {
		return f.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// fit trains cfg.Trees trees on X and y.
func (f *forest) fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New(errors.CodeInvalidParam, "training set is empty")
	}
	if len(X) != len(y) {
		return errors.Newf(errors.CodeInvalidParam,
			"feature rows (%d) and targets (%d) differ in length", len(X), len(y))
	}
	if err := checkMatrix(X, -1); err != nil {
		return err
	}

	params := treeParams{
		maxDepth:    f.cfg.MaxDepth,
		minLeafSize: f.cfg.MinLeafSize,
		maxFeatures: f.cfg.MaxFeatures,
	}
	trees := make([]*regressionTree, f.cfg.Trees)

	var g errgroup.Group
	g.SetLimit(f.workers())
	for t := 0; t < f.cfg.Trees; t++ {
		t := t
		g.Go(func() error {
			rng := rand.New(rand.NewSource(f.cfg.Seed + int64(t)))
			idx := make([]int, len(X))
			for i := range idx {
				idx[i] = rng.Intn(len(X))
			}
			trees[t] = growTree(X, y, idx, params, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.trees = trees
	f.nFeatures = len(X[0])
	return nil
}

// predict averages the per-tree outputs for every row.  An empty input
// yields an empty, non-nil output.
func (f *forest) predict(X [][]float64) ([]float64, error) {
	if !f.fitted() {
		return nil, errors.New(errors.CodeModelNotFitted, "model has not been fitted")
	}
	if len(X) == 0 {
		return []float64{}, nil
	}
	if err := checkMatrix(X, f.nFeatures); err != nil {
		return nil, err
	}

	out := make([]float64, len(X))
	var g errgroup.Group
	g.SetLimit(f.workers())
	for start := 0; start < len(X); start += predictChunk {
		start := start
		end := start + predictChunk
		if end > len(X) {
			end = len(X)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				var sum float64
				for _, tree := range f.trees {
					sum += tree.predict(X[i])
				}
				out[i] = sum / float64(len(f.trees))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// predictChunk is the row batch handed to one prediction worker.
const predictChunk = 256

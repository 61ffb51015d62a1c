// Package vina shells out to the AutoDock Vina binary to dock ligands
// against a prepared receptor, parses the pose energies from the output
// PDBQT, and collects per-ligand results for the screening pipeline.
package vina

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gmseabra/MolDB-Screening/internal/config"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/logging"
	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Result is the outcome of docking one ligand.  Poses are ordered
// best-first as vina emits them; Best is Poses[0].
type Result struct {
	Ligand   string        `json:"ligand"`
	Poses    []PoseEnergy  `json:"poses"`
	PoseFile string        `json:"pose_file"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Best returns the top-ranked pose energy.
func (r Result) Best() PoseEnergy { return r.Poses[0] }

// BatchResult aggregates a docking run over many ligands.  Failed holds the
// per-ligand errors for ligands that were skipped; the run as a whole
// succeeds as long as at least one ligand docked.
type BatchResult struct {
	Results []Result
	Failed  map[string]error
}

// Runner executes vina processes.  A Runner is safe for concurrent use.
type Runner struct {
	cfg config.DockingConfig
	log logging.Logger
}

// NewRunner validates the docking configuration paths and returns a Runner.
func NewRunner(cfg config.DockingConfig, log logging.Logger) (*Runner, error) {
	if _, err := os.Stat(cfg.Receptor); err != nil {
		return nil, errors.Wrap(err, errors.CodeDockingSetup, "receptor file not accessible")
	}
	if _, err := exec.LookPath(cfg.VinaBin); err != nil {
		return nil, errors.Wrap(err, errors.CodeDockingSetup, "vina binary not found")
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.CodeDockingSetup, "creating output directory")
		}
	}
	return &Runner{cfg: cfg, log: log.Named("vina")}, nil
}

// DockLigand docks a single ligand PDBQT and returns its pose energies.
// A failure of the vina process or its output parsing is reported with
// CodeDockingFailed so batch callers can skip the ligand and continue.
func (r *Runner) DockLigand(ctx context.Context, ligandPath string) (Result, error) {
	start := time.Now()
	name := ligandStem(ligandPath)

	tmpDir, err := os.MkdirTemp("", "vina-"+name+"-")
	if err != nil {
		return Result{}, errors.Wrap(err, errors.CodeDockingSetup, "creating scratch directory")
	}
	defer os.RemoveAll(tmpDir)

	outFile := filepath.Join(tmpDir, name+"_out.pdbqt")
	cmd := exec.CommandContext(ctx, r.cfg.VinaBin, r.args(ligandPath, outFile)...)

	if out, err := cmd.CombinedOutput(); err != nil {
		return Result{}, errors.Newf(errors.CodeDockingFailed,
			"vina failed for %s: %v", name, err).WithDetail(tail(string(out), 500))
	}

	f, err := os.Open(outFile)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.CodeDockingFailed, "vina produced no output file")
	}
	poses, perr := ParsePoses(f)
	f.Close()
	if perr != nil {
		return Result{}, errors.Wrap(perr, errors.CodeDockingFailed, "parsing vina output for "+name)
	}

	poseFile := ""
	if r.cfg.OutputDir != "" {
		poseFile = filepath.Join(r.cfg.OutputDir, name+".pdbqt")
		if err := copyFile(outFile, poseFile); err != nil {
			return Result{}, errors.Wrap(err, errors.CodeDockingFailed, "saving pose file for "+name)
		}
	}

	res := Result{Ligand: name, Poses: poses, PoseFile: poseFile, Elapsed: time.Since(start)}
	r.log.Debug("ligand docked",
		logging.String("ligand", name),
		logging.Float64("score", res.Best().Total),
		logging.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// DockBatch docks every ligand concurrently, at most cfg.Parallel at a time.
// Per-ligand docking failures are logged and recorded in BatchResult.Failed
// without aborting the run; setup errors and context cancellation abort.
// Results come back sorted by ligand name regardless of completion order.
func (r *Runner) DockBatch(ctx context.Context, ligandPaths []string) (BatchResult, error) {
	batch := BatchResult{Failed: make(map[string]error)}
	if len(ligandPaths) == 0 {
		return batch, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel())

	for _, path := range ligandPaths {
		path := path
		g.Go(func() error {
			res, err := r.DockLigand(ctx, path)
			if err != nil {
				if errors.IsFatal(err) || ctx.Err() != nil {
					return err
				}
				r.log.Warn("skipping ligand after docking failure",
					logging.String("ligand", ligandStem(path)),
					logging.Err(err),
				)
				mu.Lock()
				batch.Failed[ligandStem(path)] = err
				mu.Unlock()
				return nil
			}
			mu.Lock()
			batch.Results = append(batch.Results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return batch, err
	}

	sort.Slice(batch.Results, func(i, j int) bool {
		return batch.Results[i].Ligand < batch.Results[j].Ligand
	})

	r.log.Info("docking batch finished",
		logging.Int("docked", len(batch.Results)),
		logging.Int("failed", len(batch.Failed)),
	)
	if len(batch.Results) == 0 {
		return batch, errors.New(errors.CodeDockingSetup, "every ligand in the batch failed to dock")
	}
	return batch, nil
}

// ListLigands returns the PDBQT files under cfg.LigandDir, sorted by name.
func (r *Runner) ListLigands() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.LigandDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDockingSetup, "reading ligand directory")
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdbqt") {
			continue
		}
		paths = append(paths, filepath.Join(r.cfg.LigandDir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *Runner) args(ligandPath, outFile string) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		"--receptor", r.cfg.Receptor,
		"--ligand", ligandPath,
		"--center_x", f(r.cfg.Center[0]),
		"--center_y", f(r.cfg.Center[1]),
		"--center_z", f(r.cfg.Center[2]),
		"--size_x", f(r.cfg.Size[0]),
		"--size_y", f(r.cfg.Size[1]),
		"--size_z", f(r.cfg.Size[2]),
		"--exhaustiveness", strconv.Itoa(r.cfg.Exhaustiveness),
		"--num_modes", strconv.Itoa(r.cfg.NumPoses),
		"--energy_range", f(r.cfg.EnergyRange),
		"--cpu", strconv.Itoa(r.cfg.CPU),
		"--out", outFile,
	}
}

func (r *Runner) parallel() int {
	if r.cfg.Parallel > 0 {
		return r.cfg.Parallel
	}
	return 1
}

// ligandStem strips the directory and .pdbqt suffix from a ligand path.
func ligandStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".pdbqt")
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// tail returns at most n trailing bytes of s, for error details.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("...%s", s[len(s)-n:])
}

// Package screening orchestrates the pipeline stages: docking a ligand set,
// training the surrogate on scored compounds, scanning the full library, and
// selecting the top-K candidates.
package screening

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gmseabra/MolDB-Screening/internal/config"
	"github.com/gmseabra/MolDB-Screening/internal/domain/compound"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/database/postgres/repositories"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/dataset"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/docking/vina"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/logging"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/prometheus"
	"github.com/gmseabra/MolDB-Screening/internal/intelligence/surrogate"
	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Store is the optional persistence boundary for run results.
type Store interface {
	SaveRun(ctx context.Context, run repositories.Run) error
	SavePredictions(ctx context.Context, runID uuid.UUID, lib *compound.Library, selectedRanks map[string]int) error
}

// Service wires the pipeline stages together.  Metrics, Store and Catalog
// are optional; a zero-valued Service needs only cfg and log.
type Service struct {
	cfg     *config.Config
	log     logging.Logger
	metrics *prometheus.ScreeningMetrics
	store   Store
	catalog *dataset.Catalog
}

// NewService constructs a Service for the given configuration.
func NewService(cfg *config.Config, log logging.Logger) *Service {
	return &Service{cfg: cfg, log: log.Named("screening")}
}

// SetMetrics attaches a metrics collector.
func (s *Service) SetMetrics(m *prometheus.ScreeningMetrics) { s.metrics = m }

// SetStore attaches the result store.
func (s *Service) SetStore(st Store) { s.store = st }

// SetCatalog attaches vendor listings for output annotation.
func (s *Service) SetCatalog(c *dataset.Catalog) { s.catalog = c }

// LoadLibrary reads the configured dataset.
func (s *Service) LoadLibrary() (*compound.Library, error) {
	lib, err := dataset.NewLoader(s.cfg.Dataset, s.log).Load()
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.LibrarySize.Set(float64(lib.Len()))
	}
	return lib, nil
}

// Dock runs the configured vina batch over every ligand in the ligand
// directory and returns the per-ligand results.
func (s *Service) Dock(ctx context.Context) (vina.BatchResult, error) {
	runner, err := vina.NewRunner(s.cfg.Docking, s.log)
	if err != nil {
		return vina.BatchResult{}, err
	}
	ligands, err := runner.ListLigands()
	if err != nil {
		return vina.BatchResult{}, err
	}
	if len(ligands) == 0 {
		return vina.BatchResult{}, errors.New(errors.CodeDockingSetup, "ligand directory contains no PDBQT files")
	}

	batch, err := runner.DockBatch(ctx, ligands)
	if s.metrics != nil {
		s.metrics.DockingsTotal.Add(float64(len(batch.Results)))
		s.metrics.DockingFailures.Add(float64(len(batch.Failed)))
		for _, res := range batch.Results {
			s.metrics.DockingDuration.Observe(res.Elapsed.Seconds())
		}
	}
	return batch, err
}

// Filter applies the physical-validity predicate: positive (repulsive)
// docking scores indicate a failed pose and are excluded, as are records
// with no score at all.
func (s *Service) Filter(lib *compound.Library) *compound.Library {
	filtered := lib.Filter(compound.PhysicallyValid)
	if dropped := lib.Len() - filtered.Len(); dropped > 0 {
		s.log.Warn("dropped records failing the physical-validity filter",
			logging.Int("dropped", dropped),
			logging.Int("kept", filtered.Len()),
		)
	}
	if s.metrics != nil {
		s.metrics.FilteredLibrarySize.Set(float64(filtered.Len()))
	}
	return filtered
}

// Train fits the configured surrogate on a training sample drawn from lib
// (which must already be filtered to valid scored records) and evaluates it
// on a held-out split.
func (s *Service) Train(ctx context.Context, lib *compound.Library) (surrogate.Model, TrainReport, error) {
	start := time.Now()

	sample := lib
	if n := s.cfg.Surrogate.SampleSize; n > 0 && n < lib.Len() {
		sample = lib.Sample(n, s.cfg.Surrogate.Seed)
	}

	trainLib, testLib, err := s.splitSample(sample)
	if err != nil {
		return nil, TrainReport{}, err
	}

	model, err := surrogate.NewModel(s.modelConfig())
	if err != nil {
		return nil, TrainReport{}, err
	}
	if err := model.Fit(trainLib.Features(), trainLib.DockingScores()); err != nil {
		return nil, TrainReport{}, err
	}

	report := TrainReport{
		Kind:      model.Kind(),
		TrainSize: trainLib.Len(),
		TestSize:  testLib.Len(),
	}
	if err := s.evaluate(model, testLib, &report); err != nil {
		return nil, TrainReport{}, err
	}
	report.Elapsed = time.Since(start)

	if s.metrics != nil {
		s.metrics.TrainingDuration.Observe(report.Elapsed.Seconds())
	}
	s.log.Info("surrogate trained", logging.String("report", report.String()))
	return model, report, nil
}

// splitSample partitions the training sample.  The classifier variant uses a
// stratified split over the percentile-derived activity labels so both
// partitions keep the active/inactive balance; a plain random split can leave
// the held-out set single-class on small or imbalanced samples.
func (s *Service) splitSample(sample *compound.Library) (train, test *compound.Library, err error) {
	if surrogate.ModelKind(s.cfg.Surrogate.Kind) == surrogate.KindClassifier {
		_, raw := surrogate.LabelActives(sample.DockingScores(), s.cfg.Surrogate.ActivePercentile)
		labels := make([]bool, len(raw))
		for i, v := range raw {
			labels[i] = v == 1
		}
		return sample.StratifiedSplit(labels, s.cfg.Surrogate.TestFraction, s.cfg.Surrogate.Seed)
	}
	return sample.Split(s.cfg.Surrogate.TestFraction, s.cfg.Surrogate.Seed)
}

func (s *Service) evaluate(model surrogate.Model, testLib *compound.Library, report *TrainReport) error {
	preds, err := model.Predict(testLib.Features())
	if err != nil {
		return err
	}
	switch m := model.(type) {
	case *surrogate.Classifier:
		report.Threshold = m.Threshold()
		truth := make([]float64, testLib.Len())
		for i, score := range testLib.DockingScores() {
			if score <= m.Threshold() {
				truth[i] = 1
			}
		}
		cls, err := surrogate.EvaluateClassifier(preds, truth)
		if err != nil {
			return err
		}
		report.Classification = &cls
	default:
		reg, err := surrogate.EvaluateRegressor(preds, testLib.DockingScores())
		if err != nil {
			return err
		}
		report.Regression = &reg
	}
	return nil
}

// Score runs the surrogate over every record of lib and returns a copy with
// predicted scores attached.  The ranking convention is "lower is better"
// for both model kinds: the classifier's probabilities are negated so that
// the most probable actives sort first.
func (s *Service) Score(ctx context.Context, model surrogate.Model, lib *compound.Library) (*compound.Library, error) {
	start := time.Now()

	preds, err := model.Predict(lib.Features())
	if err != nil {
		return nil, err
	}
	if model.Kind() == surrogate.KindClassifier {
		for i := range preds {
			preds[i] = -preds[i]
		}
	}
	scored, err := lib.WithPredicted(preds)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ScoringDuration.Observe(time.Since(start).Seconds())
		s.metrics.CompoundsScored.Add(float64(scored.Len()))
	}
	s.log.Info("library scored",
		logging.Int("compounds", scored.Len()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return scored, nil
}

// Run executes the full screening pipeline: load, filter, train, score the
// whole library, select the top-K, write outputs, and persist when a store
// is attached.
func (s *Service) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()

	lib, err := s.LoadLibrary()
	if err != nil {
		return nil, err
	}
	filtered := s.Filter(lib)
	if filtered.Len() == 0 {
		return nil, errors.DataFormat("no physically valid scored records to train on")
	}

	model, trainReport, err := s.Train(ctx, filtered)
	if err != nil {
		return nil, err
	}

	scored, err := s.Score(ctx, model, lib)
	if err != nil {
		return nil, err
	}

	topK := scored.SelectTop(s.cfg.Selection.TopK)
	random := scored.SelectRandom(len(topK), s.cfg.Selection.RandomSeed)
	if s.metrics != nil {
		s.metrics.SelectionSize.Set(float64(len(topK)))
	}

	report := buildRunReport(scored, topK, random, trainReport, s.cfg.Selection.RandomSeed)
	report.LibrarySize = lib.Len()
	report.FilteredSize = filtered.Len()
	report.Elapsed = time.Since(start)

	if err := s.writeOutputs(scored, topK); err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.persist(ctx, scored, topK, trainReport, start); err != nil {
			return nil, err
		}
	}
	return &report, nil
}

func (s *Service) writeOutputs(scored *compound.Library, topK compound.Selection) error {
	out := s.cfg.Dataset.OutputPath
	if out == "" {
		return nil
	}
	w := dataset.NewWriter(s.catalog)
	if err := w.WriteSelection(out, topK); err != nil {
		return err
	}
	if err := w.WriteScores(scoresPath(out), scored); err != nil {
		return err
	}
	s.log.Info("results written",
		logging.String("selection", out),
		logging.String("scores", scoresPath(out)),
	)
	return nil
}

func (s *Service) persist(ctx context.Context, scored *compound.Library, topK compound.Selection, train TrainReport, started time.Time) error {
	runID := uuid.New()
	run := repositories.Run{
		ID:          runID,
		DatasetPath: s.cfg.Dataset.Path,
		ModelKind:   string(train.Kind),
		Trees:       s.cfg.Surrogate.Trees,
		Seed:        s.cfg.Surrogate.Seed,
		TrainSize:   train.TrainSize,
		LibrarySize: scored.Len(),
		TopK:        len(topK),
		StartedAt:   started,
		FinishedAt:  time.Now(),
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		return err
	}

	ranks := make(map[string]int, len(topK))
	for i, rec := range topK {
		ranks[rec.ID] = i + 1
	}
	if err := s.store.SavePredictions(ctx, runID, scored, ranks); err != nil {
		return err
	}
	s.log.Info("run persisted", logging.String("run_id", runID.String()))
	return nil
}

func (s *Service) modelConfig() surrogate.Config {
	return surrogate.Config{
		Kind:             surrogate.ModelKind(s.cfg.Surrogate.Kind),
		Trees:            s.cfg.Surrogate.Trees,
		MaxDepth:         s.cfg.Surrogate.MaxDepth,
		MinLeafSize:      s.cfg.Surrogate.MinLeafSize,
		MaxFeatures:      s.cfg.Surrogate.MaxFeatures,
		ActivePercentile: s.cfg.Surrogate.ActivePercentile,
		Seed:             s.cfg.Surrogate.Seed,
		Workers:          s.cfg.Surrogate.Workers,
	}
}

// scoresPath derives the full-scan output path from the selection path.
func scoresPath(selectionPath string) string {
	base := strings.TrimSuffix(selectionPath, ".csv")
	return base + "_scores.csv"
}

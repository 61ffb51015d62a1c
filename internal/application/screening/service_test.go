package screening

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmseabra/MolDB-Screening/internal/config"
	"github.com/gmseabra/MolDB-Screening/internal/domain/compound"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/database/postgres/repositories"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/logging"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/prometheus"
)

// writeSyntheticDataset builds a CSV library where fingerprint bit 0
// determines binding strength: set means a score near -9, clear near -2.
// A few physically invalid and unscored rows are mixed in.
func writeSyntheticDataset(t *testing.T, n int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(99))

	var sb strings.Builder
	sb.WriteString("ID,Fingerprint,Chemgauss4\n")
	for i := 0; i < n; i++ {
		bits := make([]byte, 16)
		for j := 1; j < 16; j++ {
			if rng.Float64() < 0.5 {
				bits[j] = '1'
			} else {
				bits[j] = '0'
			}
		}
		var score string
		switch {
		case i%10 == 9:
			// Physically invalid: repulsive score.
			bits[0] = '0'
			score = "2.5"
		case i%10 == 8:
			// Not yet docked.
			bits[0] = '0'
			score = ""
		case i%2 == 0:
			bits[0] = '1'
			score = strconv.FormatFloat(-9+rng.Float64(), 'f', 3, 64)
		default:
			bits[0] = '0'
			score = strconv.FormatFloat(-2+rng.Float64(), 'f', 3, 64)
		}
		fmt.Fprintf(&sb, "CPD-%04d,%s,%s\n", i, bits, score)
	}

	path := filepath.Join(t.TempDir(), "library.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func testConfig(t *testing.T, datasetPath, kind string) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Dataset.Path = datasetPath
	cfg.Dataset.IDColumn = "ID"
	cfg.Dataset.FingerprintColumn = "Fingerprint"
	cfg.Dataset.ScoreColumn = "Chemgauss4"
	cfg.Dataset.OutputPath = filepath.Join(t.TempDir(), "selection.csv")
	cfg.Surrogate.Kind = kind
	cfg.Surrogate.Trees = 30
	cfg.Surrogate.MaxFeatures = 8
	cfg.Surrogate.ActivePercentile = 50
	cfg.Selection.TopK = 20
	return cfg
}

// On small imbalanced samples a plain random split can leave the held-out
// partition single-class, which makes the classifier's AUC undefined.  The
// classifier variant therefore splits stratified on the activity labels.
func TestSplitSample_ClassifierKeepsBothClasses(t *testing.T) {
	records := make([]compound.Compound, 10)
	for i := range records {
		fp, err := compound.ParseFingerprint(fmt.Sprintf("%04b", i))
		require.NoError(t, err)
		records[i] = compound.Compound{
			ID:           fmt.Sprintf("CPD-%02d", i+1),
			Fingerprint:  fp,
			DockingScore: compound.ScorePtr(float64(i) - 10),
		}
	}
	lib, err := compound.NewLibrary(records)
	require.NoError(t, err)

	cfg := config.NewDefaultConfig()
	cfg.Surrogate.Kind = "classifier"
	cfg.Surrogate.ActivePercentile = 30
	cfg.Surrogate.TestFraction = 0.4

	// The 30th percentile of scores -10..-1 is -8, giving 3 actives.
	countActives := func(l *compound.Library) int {
		n := 0
		for _, rec := range l.Records() {
			if *rec.DockingScore <= -8 {
				n++
			}
		}
		return n
	}

	for seed := int64(0); seed < 20; seed++ {
		cfg.Surrogate.Seed = seed
		svc := NewService(cfg, logging.NewNopLogger())
		train, test, err := svc.splitSample(lib)
		require.NoError(t, err)
		for name, part := range map[string]*compound.Library{"train": train, "test": test} {
			a := countActives(part)
			assert.Positivef(t, a, "seed %d: no actives in %s partition", seed, name)
			assert.Lessf(t, a, part.Len(), "seed %d: no inactives in %s partition", seed, name)
		}
	}
}

func TestRun_Regressor(t *testing.T) {
	cfg := testConfig(t, writeSyntheticDataset(t, 200), "regressor")
	svc := NewService(cfg, logging.NewNopLogger())

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200, report.LibrarySize)
	// 40 of 200 rows are invalid or unscored.
	assert.Equal(t, 160, report.FilteredSize)
	assert.Equal(t, 200, report.ScoredSize)
	assert.Equal(t, 20, report.SelectionSize)
	require.NotNil(t, report.Train.Regression)
	assert.Nil(t, report.Train.Classification)

	// The surrogate-guided selection finds stronger binders than chance.
	assert.Less(t, report.TopK.Mean, report.RandomBaseline.Mean)
	assert.Less(t, report.TopK.Mean, report.Population.Mean)

	// Output files exist and carry the selection.
	f, err := os.Open(cfg.Dataset.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 21) // header + top-K

	assert.FileExists(t, strings.TrimSuffix(cfg.Dataset.OutputPath, ".csv")+"_scores.csv")
}

func TestRun_Classifier(t *testing.T) {
	cfg := testConfig(t, writeSyntheticDataset(t, 200), "classifier")
	svc := NewService(cfg, logging.NewNopLogger())

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, report.Train.Classification)
	assert.Nil(t, report.Train.Regression)
	assert.Less(t, report.Train.Threshold, 0.0)
	// Probability ranking still concentrates strong binders in the top-K.
	assert.Less(t, report.TopK.Mean, report.RandomBaseline.Mean)
}

func TestRun_Deterministic(t *testing.T) {
	path := writeSyntheticDataset(t, 150)

	run := func() []string {
		cfg := testConfig(t, path, "regressor")
		report, err := NewService(cfg, logging.NewNopLogger()).Run(context.Background())
		require.NoError(t, err)
		require.NotZero(t, report.SelectionSize)

		f, err := os.Open(cfg.Dataset.OutputPath)
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)

		ids := make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			ids = append(ids, row[1])
		}
		return ids
	}

	assert.Equal(t, run(), run())
}

func TestRun_MetricsRecorded(t *testing.T) {
	cfg := testConfig(t, writeSyntheticDataset(t, 100), "regressor")
	svc := NewService(cfg, logging.NewNopLogger())
	m := prometheus.NewScreeningMetrics()
	svc.SetMetrics(m)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
}

type fakeStore struct {
	runs        []repositories.Run
	predictions int
	ranks       map[string]int
}

func (f *fakeStore) SaveRun(_ context.Context, run repositories.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeStore) SavePredictions(_ context.Context, _ uuid.UUID, lib *compound.Library, ranks map[string]int) error {
	f.predictions = lib.Len()
	f.ranks = ranks
	return nil
}

func TestRun_PersistsWhenStoreAttached(t *testing.T) {
	cfg := testConfig(t, writeSyntheticDataset(t, 120), "regressor")
	svc := NewService(cfg, logging.NewNopLogger())
	store := &fakeStore{}
	svc.SetStore(store)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, cfg.Dataset.Path, run.DatasetPath)
	assert.Equal(t, "regressor", run.ModelKind)
	assert.Equal(t, report.ScoredSize, run.LibrarySize)
	assert.Equal(t, report.SelectionSize, run.TopK)
	assert.Equal(t, 120, store.predictions)
	assert.Len(t, store.ranks, report.SelectionSize)
	for _, rank := range store.ranks {
		assert.GreaterOrEqual(t, rank, 1)
		assert.LessOrEqual(t, rank, report.SelectionSize)
	}
}

func TestRun_EmptyAfterFilter(t *testing.T) {
	// Every record is repulsive, nothing survives the validity filter.
	content := "ID,Fingerprint,Chemgauss4\nA,0101,3.2\nB,1100,1.1\n"
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := testConfig(t, path, "regressor")
	_, err := NewService(cfg, logging.NewNopLogger()).Run(context.Background())
	assert.Error(t, err)
}

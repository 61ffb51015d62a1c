package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Docking.Center = []float64{23.266, 56.891, 86.524}
	cfg.Docking.Size = []float64{18, 18, 18}
	return cfg
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing_center", func(c *Config) { c.Docking.Center = nil }},
		{"short_size", func(c *Config) { c.Docking.Size = []float64{18, 18} }},
		{"negative_size", func(c *Config) { c.Docking.Size = []float64{18, -1, 18} }},
		{"zero_exhaustiveness", func(c *Config) { c.Docking.Exhaustiveness = -1 }},
		{"bad_kind", func(c *Config) { c.Surrogate.Kind = "svm" }},
		{"bad_test_fraction", func(c *Config) { c.Surrogate.TestFraction = 1.5 }},
		{"bad_percentile", func(c *Config) { c.Surrogate.ActivePercentile = 100 }},
		{"negative_top_k", func(c *Config) { c.Selection.TopK = -1 }},
		{"bad_log_level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad_log_format", func(c *Config) { c.Log.Format = "xml" }},
		{"db_enabled_without_user", func(c *Config) { c.Database.Enabled = true; c.Database.User = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultVinaBin, cfg.Docking.VinaBin)
	assert.Equal(t, DefaultExhaustiveness, cfg.Docking.Exhaustiveness)
	assert.Equal(t, DefaultScoreColumn, cfg.Dataset.ScoreColumn)
	assert.Equal(t, DefaultSurrogateKind, cfg.Surrogate.Kind)
	assert.Equal(t, DefaultTopK, cfg.Selection.TopK)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultBoxCenter, cfg.Docking.Center)
	assert.Equal(t, DefaultBoxSize, cfg.Docking.Size)

	// Explicit values win over defaults.
	cfg2 := &Config{}
	cfg2.Surrogate.Trees = 50
	ApplyDefaults(cfg2)
	assert.Equal(t, 50, cfg2.Surrogate.Trees)

	// Nil is a no-op.
	ApplyDefaults(nil)
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "molscreen.yaml")
	yaml := `
docking:
  center: [23.266, 56.891, 86.524]
  size: [18.0, 18.0, 18.0]
  exhaustiveness: 8
dataset:
  path: library.csv
surrogate:
  kind: regressor
  trees: 25
selection:
  top_k: 100
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("MOLSCREEN_SELECTION_TOP_K", "500")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Docking.Exhaustiveness)
	assert.Equal(t, "library.csv", cfg.Dataset.Path)
	assert.Equal(t, "regressor", cfg.Surrogate.Kind)
	assert.Equal(t, 25, cfg.Surrogate.Trees)
	assert.Equal(t, 500, cfg.Selection.TopK)

	// Unset fields got defaults.
	assert.Equal(t, DefaultEnergyRange, cfg.Docking.EnergyRange)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/molscreen.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("surrogate:\n  kind: svm\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateDockingInputs(t *testing.T) {
	cfg := validConfig()

	// Missing receptor path.
	assert.Error(t, cfg.ValidateDockingInputs())

	dir := t.TempDir()
	receptor := filepath.Join(dir, "receptor.pdbqt")
	require.NoError(t, os.WriteFile(receptor, []byte("ATOM\n"), 0o644))
	cfg.Docking.Receptor = receptor
	assert.NoError(t, cfg.ValidateDockingInputs())

	cfg.Docking.LigandDir = filepath.Join(dir, "missing")
	assert.Error(t, cfg.ValidateDockingInputs())

	require.NoError(t, os.Mkdir(filepath.Join(dir, "ligands"), 0o755))
	cfg.Docking.LigandDir = filepath.Join(dir, "ligands")
	assert.NoError(t, cfg.ValidateDockingInputs())
}

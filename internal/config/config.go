// Package config defines all configuration structures for the MolDB-Screening
// pipeline.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"os"
)

// DockingConfig holds the AutoDock Vina invocation parameters: receptor,
// search box geometry, and engine tunables.
type DockingConfig struct {
	// VinaBin is the vina executable; resolved against PATH when relative.
	VinaBin   string `mapstructure:"vina_bin"`
	Receptor  string `mapstructure:"receptor"`
	LigandDir string `mapstructure:"ligand_dir"`
	OutputDir string `mapstructure:"output_dir"`

	// Center and Size define the cubic search box in receptor coordinates
	// (Å).  Both must have exactly three components.
	Center []float64 `mapstructure:"center"`
	Size   []float64 `mapstructure:"size"`

	Exhaustiveness int     `mapstructure:"exhaustiveness"`
	NumPoses       int     `mapstructure:"num_poses"`
	EnergyRange    float64 `mapstructure:"energy_range"`
	CPU            int     `mapstructure:"cpu"`

	// Parallel bounds how many ligands are docked concurrently.  Each vina
	// process additionally uses CPU threads internally.
	Parallel int `mapstructure:"parallel"`
}

// DatasetConfig holds paths and column names for the precomputed score table.
type DatasetConfig struct {
	Path              string `mapstructure:"path"`
	IDColumn          string `mapstructure:"id_column"`
	FingerprintColumn string `mapstructure:"fingerprint_column"`
	ScoreColumn       string `mapstructure:"score_column"`
	CatalogPath       string `mapstructure:"catalog_path"`
	OutputPath        string `mapstructure:"output_path"`
}

// SurrogateConfig holds random forest training parameters.
type SurrogateConfig struct {
	// Kind selects the model variant: "classifier" or "regressor".
	Kind        string `mapstructure:"kind"`
	Trees       int    `mapstructure:"trees"`
	MaxDepth    int    `mapstructure:"max_depth"`
	MinLeafSize int    `mapstructure:"min_leaf_size"`

	// MaxFeatures is the number of candidate features per split; 0 selects
	// sqrt(total features).
	MaxFeatures int `mapstructure:"max_features"`

	// SampleSize is how many scored compounds are drawn for training;
	// 0 uses the whole filtered library.
	SampleSize   int     `mapstructure:"sample_size"`
	TestFraction float64 `mapstructure:"test_fraction"`

	// ActivePercentile thresholds the score distribution for the classifier
	// variant: compounds at or below the p-th percentile score are labeled
	// active.
	ActivePercentile float64 `mapstructure:"active_percentile"`

	Seed    int64 `mapstructure:"seed"`
	Workers int   `mapstructure:"workers"`
}

// SelectionConfig holds top-K selection parameters.
type SelectionConfig struct {
	TopK int `mapstructure:"top_k"`

	// RandomSeed seeds the size-matched random baseline selection.
	RandomSeed int64 `mapstructure:"random_seed"`
}

// DatabaseConfig holds optional PostgreSQL persistence parameters.  When
// Enabled is false the pipeline is purely file-in/file-out.
type DatabaseConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	DBName        string `mapstructure:"db_name"`
	SSLMode       string `mapstructure:"ssl_mode"`
	MaxConns      int    `mapstructure:"max_conns"`
	MigrationPath string `mapstructure:"migration_path"`
}

// MetricsConfig holds the optional Prometheus exposition listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// Config is the root configuration structure for the pipeline.  Every stage
// reads its settings from the relevant sub-struct.
type Config struct {
	Docking   DockingConfig   `mapstructure:"docking"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Surrogate SurrogateConfig `mapstructure:"surrogate"`
	Selection SelectionConfig `mapstructure:"selection"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered; any error is fatal and the run must
// not start.
func (c *Config) Validate() error {
	// Docking
	if len(c.Docking.Center) != 3 {
		return fmt.Errorf("config: docking.center must have 3 components, got %d", len(c.Docking.Center))
	}
	if len(c.Docking.Size) != 3 {
		return fmt.Errorf("config: docking.size must have 3 components, got %d", len(c.Docking.Size))
	}
	for i, s := range c.Docking.Size {
		if s <= 0 {
			return fmt.Errorf("config: docking.size[%d] must be > 0, got %g", i, s)
		}
	}
	if c.Docking.Exhaustiveness < 1 {
		return fmt.Errorf("config: docking.exhaustiveness must be ≥ 1, got %d", c.Docking.Exhaustiveness)
	}
	if c.Docking.NumPoses < 1 {
		return fmt.Errorf("config: docking.num_poses must be ≥ 1, got %d", c.Docking.NumPoses)
	}
	if c.Docking.EnergyRange <= 0 {
		return fmt.Errorf("config: docking.energy_range must be > 0, got %g", c.Docking.EnergyRange)
	}
	if c.Docking.CPU < 1 {
		return fmt.Errorf("config: docking.cpu must be ≥ 1, got %d", c.Docking.CPU)
	}
	if c.Docking.Parallel < 1 {
		return fmt.Errorf("config: docking.parallel must be ≥ 1, got %d", c.Docking.Parallel)
	}

	// Surrogate
	switch c.Surrogate.Kind {
	case "classifier", "regressor":
	default:
		return fmt.Errorf("config: surrogate.kind %q is invalid; expected classifier|regressor", c.Surrogate.Kind)
	}
	if c.Surrogate.Trees < 1 {
		return fmt.Errorf("config: surrogate.trees must be ≥ 1, got %d", c.Surrogate.Trees)
	}
	if c.Surrogate.TestFraction <= 0 || c.Surrogate.TestFraction >= 1 {
		return fmt.Errorf("config: surrogate.test_fraction must be in (0, 1), got %g", c.Surrogate.TestFraction)
	}
	if c.Surrogate.ActivePercentile <= 0 || c.Surrogate.ActivePercentile >= 100 {
		return fmt.Errorf("config: surrogate.active_percentile must be in (0, 100), got %g", c.Surrogate.ActivePercentile)
	}
	if c.Surrogate.Workers < 1 {
		return fmt.Errorf("config: surrogate.workers must be ≥ 1, got %d", c.Surrogate.Workers)
	}

	// Selection
	if c.Selection.TopK < 0 {
		return fmt.Errorf("config: selection.top_k must be ≥ 0, got %d", c.Selection.TopK)
	}

	// Database (only when enabled)
	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required when database.enabled")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required when database.enabled")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required when database.enabled")
		}
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("config: metrics.listen is required when metrics.enabled")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

// ValidateDockingInputs checks that the receptor file and ligand directory
// exist and are readable.  Kept separate from Validate so that train/screen
// runs do not require docking inputs on disk.
func (c *Config) ValidateDockingInputs() error {
	if c.Docking.Receptor == "" {
		return fmt.Errorf("config: docking.receptor is required")
	}
	if _, err := os.Stat(c.Docking.Receptor); err != nil {
		return fmt.Errorf("config: docking.receptor %q is not readable: %w", c.Docking.Receptor, err)
	}
	if c.Docking.LigandDir != "" {
		info, err := os.Stat(c.Docking.LigandDir)
		if err != nil {
			return fmt.Errorf("config: docking.ligand_dir %q is not readable: %w", c.Docking.LigandDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("config: docking.ligand_dir %q is not a directory", c.Docking.LigandDir)
		}
	}
	return nil
}

package config

// Default value constants.  Docking defaults follow the values used for the
// ZNF146 screen the pipeline was first built around: exhaustiveness 32,
// a single best pose per ligand, 5 kcal/mol energy window.
const (
	DefaultVinaBin        = "vina"
	DefaultExhaustiveness = 32
	DefaultNumPoses       = 1
	DefaultEnergyRange    = 5.0
	DefaultVinaCPU        = 4
	DefaultParallel       = 8
	DefaultOutputDir      = "out"

	DefaultIDColumn          = "ID"
	DefaultFingerprintColumn = "Fingerprint"
	DefaultScoreColumn       = "Chemgauss4"

	DefaultSurrogateKind    = "classifier"
	DefaultTrees            = 300
	DefaultMinLeafSize      = 1
	DefaultTestFraction     = 0.3
	DefaultActivePercentile = 30.0
	DefaultSeed             = 42
	DefaultWorkers          = 4

	DefaultTopK = 2000

	DefaultDBHost        = "localhost"
	DefaultDBPort        = 5432
	DefaultDBName        = "molscreen"
	DefaultDBMaxConns    = 10
	DefaultMigrationPath = "migrations"

	DefaultMetricsListen = ":9109"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default search box for the ZNF146 receptor, in receptor coordinates (Å).
var (
	DefaultBoxCenter = []float64{23.266, 56.891, 86.524}
	DefaultBoxSize   = []float64{18, 18, 18}
)

// ApplyDefaults fills every zero-value field in cfg with the pipeline
// default.  Fields already set by the caller are left unchanged so that
// explicit configuration always wins.  Call after unmarshalling and before
// Validate so optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// Docking
	if cfg.Docking.VinaBin == "" {
		cfg.Docking.VinaBin = DefaultVinaBin
	}
	if cfg.Docking.OutputDir == "" {
		cfg.Docking.OutputDir = DefaultOutputDir
	}
	if cfg.Docking.Exhaustiveness == 0 {
		cfg.Docking.Exhaustiveness = DefaultExhaustiveness
	}
	if cfg.Docking.NumPoses == 0 {
		cfg.Docking.NumPoses = DefaultNumPoses
	}
	if cfg.Docking.EnergyRange == 0 {
		cfg.Docking.EnergyRange = DefaultEnergyRange
	}
	if cfg.Docking.CPU == 0 {
		cfg.Docking.CPU = DefaultVinaCPU
	}
	if cfg.Docking.Parallel == 0 {
		cfg.Docking.Parallel = DefaultParallel
	}
	if len(cfg.Docking.Center) == 0 {
		cfg.Docking.Center = append([]float64(nil), DefaultBoxCenter...)
	}
	if len(cfg.Docking.Size) == 0 {
		cfg.Docking.Size = append([]float64(nil), DefaultBoxSize...)
	}

	// Dataset
	if cfg.Dataset.IDColumn == "" {
		cfg.Dataset.IDColumn = DefaultIDColumn
	}
	if cfg.Dataset.FingerprintColumn == "" {
		cfg.Dataset.FingerprintColumn = DefaultFingerprintColumn
	}
	if cfg.Dataset.ScoreColumn == "" {
		cfg.Dataset.ScoreColumn = DefaultScoreColumn
	}

	// Surrogate
	if cfg.Surrogate.Kind == "" {
		cfg.Surrogate.Kind = DefaultSurrogateKind
	}
	if cfg.Surrogate.Trees == 0 {
		cfg.Surrogate.Trees = DefaultTrees
	}
	if cfg.Surrogate.MinLeafSize == 0 {
		cfg.Surrogate.MinLeafSize = DefaultMinLeafSize
	}
	if cfg.Surrogate.TestFraction == 0 {
		cfg.Surrogate.TestFraction = DefaultTestFraction
	}
	if cfg.Surrogate.ActivePercentile == 0 {
		cfg.Surrogate.ActivePercentile = DefaultActivePercentile
	}
	if cfg.Surrogate.Seed == 0 {
		cfg.Surrogate.Seed = DefaultSeed
	}
	if cfg.Surrogate.Workers == 0 {
		cfg.Surrogate.Workers = DefaultWorkers
	}

	// Selection
	if cfg.Selection.TopK == 0 {
		cfg.Selection.TopK = DefaultTopK
	}
	if cfg.Selection.RandomSeed == 0 {
		cfg.Selection.RandomSeed = DefaultSeed
	}

	// Database
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultMigrationPath
	}

	// Metrics
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults,
// including the reference receptor's search box.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

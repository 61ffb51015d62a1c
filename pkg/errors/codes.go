package errors

// ErrorCode identifies a failure category.  Codes are grouped by pipeline
// stage so that log queries and metric labels can aggregate per stage.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK       ErrorCode = "OK"
	CodeUnknown  ErrorCode = "COMMON_000"
	CodeInternal ErrorCode = "COMMON_001"
	CodeNotFound ErrorCode = "COMMON_002"
	CodeConflict ErrorCode = "COMMON_003"

	// CodeConfiguration marks a fatal configuration error: malformed paths,
	// out-of-range parameters, degenerate training labels.  The run must abort.
	CodeConfiguration ErrorCode = "CFG_001"
	CodeInvalidParam  ErrorCode = "CFG_002"
)

// Docking error codes.
const (
	// CodeDockingSetup covers unreadable receptor or ligand inputs.  Fatal.
	CodeDockingSetup ErrorCode = "DCK_001"

	// CodeDockingFailed covers a per-ligand engine failure (degenerate
	// geometry, no poses produced).  Logged and skipped; the batch continues.
	CodeDockingFailed ErrorCode = "DCK_002"

	CodeDockingOutputParse ErrorCode = "DCK_003"
)

// Dataset error codes.
const (
	// CodeDataFormat covers missing required columns or inconsistent
	// fingerprint lengths in a tabular dataset.  Fatal.
	CodeDataFormat ErrorCode = "DAT_001"
	CodeDataRead   ErrorCode = "DAT_002"
	CodeDataWrite  ErrorCode = "DAT_003"
)

// Surrogate model error codes.
const (
	CodeModelNotFitted       ErrorCode = "MDL_001"
	CodeModelDegenerateFit   ErrorCode = "MDL_002"
	CodeModelFeatureMismatch ErrorCode = "MDL_003"
)

// Storage error codes.
const (
	CodeDatabaseError ErrorCode = "STO_001"
	CodeMigration     ErrorCode = "STO_002"
)

// IsFatal reports whether an error code must abort the run.  Per-ligand
// docking failures are the only recoverable category in the pipeline.
func (c ErrorCode) IsFatal() bool {
	return c != CodeDockingFailed && c != CodeOK
}

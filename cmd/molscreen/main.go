// molscreen is the command-line entry point for the screening pipeline.
package main

import (
	"github.com/gmseabra/MolDB-Screening/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	cli.ExitOnError(cli.Execute())
}

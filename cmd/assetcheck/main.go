// assetcheck validates asset sheets from the command line.
//
// Usage:
//
//	assetcheck validate <file> [--profile=standard] [--profiles-file=profiles.yaml]
//	                           [--out=DIR] [--format=csv|xlsx] [--workers=N] [--json] [--fail-on-errors]
//	assetcheck profiles [--profiles-file=profiles.yaml]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

)

// version is set at build time via -ldflags.
var version = "dev"

// exitRowsWithErrors is the exit status for --fail-on-errors.
const exitRowsWithErrors = 2

var (
	profilesFile string
	logLevel     string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assetcheck",
		Short:         "Validate and auto-correct asset inventory sheets",
		Long:          "assetcheck applies the asset rule set to a CSV, XLSX or JSON sheet,\nwrites the corrected sheet and a validation report, and summarizes violations by field.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	root.PersistentFlags().StringVar(&profilesFile, "profiles-file", "", "YAML file with additional rule profiles")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newProfilesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errRowsWithErrors) {
			os.Exit(exitRowsWithErrors)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/assetcheck/internal/core"
	"github.com/JonMunkholm/assetcheck/internal/core/profiles"
	"github.com/JonMunkholm/assetcheck/internal/logging"
	"github.com/JonMunkholm/assetcheck/internal/sheet"
)

// errRowsWithErrors signals --fail-on-errors to main.
var errRowsWithErrors = errors.New("rows with errors")

type validateOptions struct {
	profile      string
	outDir       string
	format       string
	workers      int
	jsonOut      bool
	failOnErrors bool
}

// validateOutput is the --json document.
type validateOutput struct {
	core.RunSummary
	Series  []core.SeriesPoint `json:"series"`
	Flagged []core.RowResult   `json:"rows_with_violations"`
	Files   []string           `json:"files,omitempty"`
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a sheet and write the corrected sheet and report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.profile, "profile", profiles.StandardKey, "rule profile key")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "directory for Corrected and Validation_Report files (skipped when empty)")
	cmd.Flags().StringVar(&opts.format, "format", string(sheet.FormatCSV), "output format: csv or xlsx")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "goroutines used to evaluate rows")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.failOnErrors, "fail-on-errors", false, "exit with status 2 when any row has errors")
	return cmd
}

func runValidate(cmd *cobra.Command, path string, opts *validateOptions) error {
	logging.SetupWriter(cmd.ErrOrStderr(), logLevel, "text")

	if err := loadProfiles(); err != nil {
		return err
	}

	format, err := sheet.ParseFormat(opts.format)
	if err != nil {
		return fmt.Errorf("--format %q: %w", opts.format, err)
	}
	profile, err := core.Lookup(opts.profile)
	if err != nil {
		return err
	}

	ds, err := readDataset(path)
	if err != nil {
		return err
	}

	run, err := evaluate(cmd.Context(), profile, ds, opts.workers)
	if err != nil {
		return err
	}

	var files []string
	if opts.outDir != "" {
		files, err = writeOutputs(opts.outDir, format, run)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		err = printJSON(out, run, files)
	} else {
		printText(out, run, files)
	}
	if err != nil {
		return err
	}

	if opts.failOnErrors && run.Result.RowsWithErrors() > 0 {
		return errRowsWithErrors
	}
	return nil
}

// loadProfiles registers the profiles from --profiles-file, if given.
func loadProfiles() error {
	if profilesFile == "" {
		return nil
	}
	keys, err := profiles.LoadFile(profilesFile)
	if err != nil {
		return err
	}
	slog.Debug("profiles file loaded", "path", profilesFile, "profiles", keys)
	return nil
}

func readDataset(path string) (core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Dataset{}, err
	}
	defer f.Close()

	ds, err := sheet.Read(filepath.Base(path), f)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, nil
}

// evaluate runs the engine over ds and packages the result like a stored run.
func evaluate(ctx context.Context, profile core.Profile, ds core.Dataset, workers int) (*core.Run, error) {
	engine := core.NewEngine(profile, core.WithLogger(logging.New("validate").With("file", ds.FileName)))
	return engine.EvaluateDataset(ctx, ds, workers)
}

// writeOutputs writes the corrected sheet and the report into dir.
func writeOutputs(dir string, format sheet.Format, run *core.Run) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, sh := range []sheet.Sheet{sheet.CorrectedSheet(run), sheet.ReportSheet(run)} {
		path := filepath.Join(dir, sheet.FileName(sh.Name, format))
		if err := writeSheet(path, format, sh); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeSheet(path string, format sheet.Format, sh sheet.Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sheet.Write(f, format, sh); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printJSON(w io.Writer, run *core.Run, files []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(validateOutput{
		RunSummary: run.Summary(),
		Series:     run.Result.Counts.Series(),
		Flagged:    core.RowsWithViolations(run.Result),
		Files:      files,
	})
}

func printText(w io.Writer, run *core.Run, files []string) {
	sum := run.Summary()

	if rows := core.RowsWithViolations(run.Result); len(rows) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{core.ColRowNumber, "Field", "Message"})
		for _, row := range rows {
			for _, v := range row.Violations {
				t.AppendRow(table.Row{row.RowNumber, v.Field.String(), v.Message})
			}
		}
		fmt.Fprintln(w, t.Render())
		fmt.Fprintln(w)
	}

	t := newTable()
	t.SetTitle(fmt.Sprintf("%s (%s)", sum.FileName, sum.Profile))
	t.AppendHeader(table.Row{"Counter", "Violations"})
	for _, p := range run.Result.Counts.Series() {
		t.AppendRow(table.Row{p.Key, p.Count})
	}
	t.AppendFooter(table.Row{"Total", sum.Violations})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "\n%d rows, %d with errors, %d violations\n", sum.Rows, sum.RowsWithErrors, sum.Violations)
	for _, f := range files {
		fmt.Fprintln(w, "wrote", f)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

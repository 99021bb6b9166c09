package cmd

import (
	"fmt"
	"io"
	"os"

	cliconfig "invoice-reconciliation-service/cmd/invrec/config"
	"invoice-reconciliation-service/internal/reconciler"
	"invoice-reconciliation-service/internal/reporter"
	"invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	extractionFile   string
	referenceFile    string
	outputFormat     string
	outputFile       string
	matchedThreshold float64
	partialThreshold float64
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile an extraction result against reference data",
	Long: `Reconcile compares a machine-extracted invoice payload against a
trusted reference record and emits a confidence-scored validation report.

Both inputs are JSON files: the extraction result as produced by the
upstream extraction collaborator, and the reference data exported from the
ERP system.

Examples:
  invrec reconcile --extraction extraction.json --reference reference.json
  invrec reconcile --extraction e.json --reference r.json --output-format csv --output report.csv`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&extractionFile, "extraction", "e", "", "extraction result JSON file (required)")
	reconcileCmd.Flags().StringVarP(&referenceFile, "reference", "r", "", "reference data JSON file (required)")
	reconcileCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	reconcileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	reconcileCmd.Flags().Float64Var(&matchedThreshold, "matched-threshold", 0, "override the Matched status cut line")
	reconcileCmd.Flags().Float64Var(&partialThreshold, "partial-threshold", 0, "override the PartiallyMatched status cut line")

	reconcileCmd.MarkFlagRequired("extraction")
	reconcileCmd.MarkFlagRequired("reference")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("cli")

	scoringConfig, err := cliconfig.CreateScoringConfig(matchedThreshold, partialThreshold)
	if err != nil {
		return err
	}

	rep, err := reporter.NewReporter(reporter.OutputFormat(outputFormat))
	if err != nil {
		return errors.ConfigError(err.Error(), err)
	}

	extractionJSON, err := readInputFile(extractionFile)
	if err != nil {
		return err
	}
	referenceJSON, err := readInputFile(referenceFile)
	if err != nil {
		return err
	}

	log.WithFields(logger.Fields{
		"extraction": extractionFile,
		"reference":  referenceFile,
	}).Info("starting reconciliation")

	engine := reconciler.NewEngine(scoringConfig)
	report, err := engine.ReconcileJSON(extractionJSON, referenceJSON)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	return rep.Write(out, report)
}

func readInputFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		return nil, errors.FileError(errors.CodeFileRead, path, err)
	}
	return data, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.FileError(errors.CodeFileRead, path, err).
			WithSuggestion(fmt.Sprintf("ensure the directory of %s is writable", path))
	}
	return f, func() { f.Close() }, nil
}

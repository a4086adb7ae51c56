// Package main provides the CLI entry point for sheetdb.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetdb-go/internal/logging"
	"github.com/ukaji3/sheetdb-go/pkg/sheetdb"
)

var (
	filePath  string
	sheetName string
	strict    bool
	pretty    bool
	logLevel  string
	seqURL    string

	logger     *slog.Logger
	flushLogFn = func() {}
)

func main() {
	err := newRootCmd().Execute()
	flushLogFn()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetdb",
		Short: "Use an Excel sheet as a table",
		Long: `sheetdb treats one sheet of an xlsx workbook as a table of rows.
Rows and queries are JSON objects; every change rewrites the whole file.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&filePath, "file", "f", "", "Workbook file path (required)")
	flags.StringVarP(&sheetName, "sheet", "s", sheetdb.DefaultSheetName, "Sheet to use as the table")
	flags.BoolVar(&strict, "strict", false, "Fail when the sheet does not exist instead of loading it empty")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.StringVar(&seqURL, "seq-url", "", "Also send logs to this Seq server URL")
	_ = rootCmd.MarkPersistentFlagRequired("file")

	rootCmd.AddCommand(
		newInitCmd(),
		newSelectCmd(),
		newGetCmd(),
		newInsertCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newAddSheetCmd(),
		newRemoveSheetCmd(),
		newSheetsCmd(),
		newExistsCmd(),
		newCountCmd(),
		newAddColumnCmd(),
		newRemoveColumnCmd(),
		newDumpCmd(),
	)

	return rootCmd
}

func setupLogging(cmd *cobra.Command, args []string) error {
	l, flush, err := logging.Setup(logging.Config{
		Level:  logLevel,
		SeqURL: seqURL,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logger, flushLogFn = l, flush
	return nil
}

func storeOptions() sheetdb.Options {
	return sheetdb.Options{
		SheetName: sheetName,
		Strict:    &strict,
		Logger:    logger,
	}
}

func openStore() (*sheetdb.Store, error) {
	// Validate input file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}
	return sheetdb.Open(filePath, storeOptions())
}

// openWorkbookStore opens the store for commands that act on the workbook
// rather than the selected sheet, so --strict does not require that sheet.
func openWorkbookStore() (*sheetdb.Store, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}
	opts := storeOptions()
	opts.Strict = new(bool)
	return sheetdb.Open(filePath, opts)
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

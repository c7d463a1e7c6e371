package cmd

import (
	"fmt"
	"os"

	"programindexer/internal/diag"

	"github.com/spf13/cobra"
)

func init() {
	indexCmd.Flags().Bool("quiet", false, "Suppress diagnostic warnings")
	indexCmd.Flags().String("diagnostics-file", "", "Write diagnostic warnings to this file instead of stderr")
}

// resolveSink builds the diag.Sink indexCmd reports through, per the
// --quiet and --diagnostics-file flags, and a cleanup function the
// caller must run once done with it.
func resolveSink(cmd *cobra.Command) (diag.Sink, func() error, error) {
	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		return diag.Discard{}, func() error { return nil }, nil
	}

	diagFile, _ := cmd.Flags().GetString("diagnostics-file")
	if diagFile == "" {
		return diag.NewWriterSink(os.Stderr), func() error { return nil }, nil
	}

	f, err := os.Create(diagFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open diagnostics file %s: %w", diagFile, err)
	}
	return diag.NewWriterSink(f), func() error { return f.Close() }, nil
}

package cmd

import (
	"fmt"
	"os"

	"programindexer/internal/config"
	"programindexer/internal/report"
	"programindexer/pkg/index"
	"programindexer/pkg/record"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [file...]",
	Short: "Index function declarations, prototypes, and calls across one or more files",
	Long: `index reads each preprocessed C translation unit given on the command
line and prints a single table of every function it found: where it was
declared, and where it was called from or referenced. A file
that fails to open is reported and skipped; the rest of the run continues.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("config", ".programindexer.yaml", "Path to the project config file")
}

func runIndex(cmd *cobra.Command, args []string) error {
	fmt.Println()

	if len(args) == 0 {
		fmt.Println("Must specify at least one file to process")
		return nil
	}

	sink, closeSink, err := resolveSink(cmd)
	if err != nil {
		return err
	}
	defer closeSink()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	driver := index.NewDriver(sink)
	var records []record.FunctionRecord

	for _, fileName := range args {
		if err := driver.Start(fileName); err != nil {
			fmt.Printf("Processing file %s stopped early due to error: %v\n", fileName, err)
			continue
		}
		for !driver.HaveEOF() {
			rec, err := driver.NextFunction()
			if err != nil {
				fmt.Printf("Processing file %s stopped early due to error: %v\n", fileName, err)
				break
			}
			records = append(records, rec)
		}
	}
	if err := driver.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close last file: %v\n", err)
	}

	report.WriteGrouped(os.Stdout, cfg, records)
	return nil
}

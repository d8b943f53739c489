package cmd

import (
	"fmt"
	"os"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <category> <technology>",
	Short: "Export a technology record as JSON",
	Long: `Export the full attribute record of a technology as an indented JSON object
with keys in dataset order. By default the record is written to
<technology>_stack.json in the current directory.

Examples:
  techstack-lens export Databases Redis
  techstack-lens export "Common Application Stacks" LAMP -o lamp.json
  techstack-lens export WebServers Nginx -o -`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path, - for stdout (default: <technology>_stack.json)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	tech, err := ds.Technology(args[0], args[1])
	if err != nil {
		return err
	}

	if exportOutput == "-" {
		return catalog.Export(cmd.OutOrStdout(), tech.Details)
	}

	path := exportOutput
	if path == "" {
		path = catalog.ExportFileName(tech.Name)
	}

	data, err := catalog.ExportBytes(tech.Details)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", tech.Name, err)
	}

	reporter.FileWriting(path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	reporter.FileWritten(path)

	logger.Info("Technology exported", "category", args[0], "tech", tech.Name, "path", path)
	fmt.Fprintf(cmd.ErrOrStderr(), "Export written to %s\n", path)
	return nil
}

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/petrarca/techstack-lens/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Outputter interface for commands with structured output
type Outputter interface {
	// ToJSON returns the data structure for JSON/YAML marshaling
	ToJSON() interface{}
	// ToText writes human-readable text format
	ToText(w io.Writer)
}

// Output writes o to the command's standard output
func Output(cmd *cobra.Command, o Outputter, format string) error {
	return OutputToFile(cmd, o, format, "")
}

// OutputToFile writes o in the given format to outputFile, or to the command's
// standard output when outputFile is empty or "-"
func OutputToFile(cmd *cobra.Command, o Outputter, format string, outputFile string) error {
	if outputFile == "-" {
		outputFile = ""
	}

	var data []byte
	var err error

	switch config.NormalizeFormat(format) {
	case "json":
		data, err = json.MarshalIndent(o.ToJSON(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(o.ToJSON())
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	default: // text
		if outputFile == "" {
			o.ToText(cmd.OutOrStdout())
			return nil
		}
		var buf bytes.Buffer
		o.ToText(&buf)
		data = buf.Bytes()
	}

	if outputFile == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	reporter.FileWriting(outputFile)
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	reporter.FileWritten(outputFile)
	fmt.Fprintf(cmd.ErrOrStderr(), "Results written to %s\n", outputFile)
	return nil
}

// setupFormatFlag configures format flag and validation for a command.
// Without an explicit flag the format comes from the settings.
func setupFormatFlag(cmd *cobra.Command, formatPtr *string) {
	cmd.Flags().StringVarP(formatPtr, "format", "f", "text", "Output format: json, yaml, or text")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("format") && settings != nil {
			*formatPtr = settings.Format
		}
		*formatPtr = config.NormalizeFormat(*formatPtr)
		return config.ValidateOutputFormat(*formatPtr)
	}
}

// setupOutputFlags configures both format and output flags for a command
func setupOutputFlags(cmd *cobra.Command, formatPtr *string, outputPtr *string) {
	setupFormatFlag(cmd, formatPtr)
	cmd.Flags().StringVarP(outputPtr, "output", "o", "", "Output file path, - for stdout (default: stdout)")
}

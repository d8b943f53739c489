package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/petrarca/techstack-lens/internal/metadata"
	"github.com/petrarca/techstack-lens/internal/search"
	"github.com/spf13/cobra"
)

var datasetFormat string

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Show dataset metadata",
	Long:  `Show where the dataset was loaded from, its format version and its size.`,
	Args:  cobra.NoArgs,
	RunE:  runDataset,
}

func init() {
	setupFormatFlag(datasetCmd, &datasetFormat)
}

// DatasetResult is the output for the dataset command
type DatasetResult struct {
	*metadata.DatasetMetadata
}

func (r *DatasetResult) ToJSON() interface{} {
	return r.DatasetMetadata
}

func (r *DatasetResult) ToText(w io.Writer) {
	m := r.DatasetMetadata
	fmt.Fprintln(w, "=== Dataset ===")
	fmt.Fprintf(w, "Source:         %s\n", m.Source)
	fmt.Fprintf(w, "Format version: %s\n", m.FormatVersion)
	fmt.Fprintf(w, "Categories:     %d\n", m.Categories)
	fmt.Fprintf(w, "Technologies:   %d\n", m.Technologies)
	fmt.Fprintf(w, "Attributes:     %d\n", m.Attributes)
	fmt.Fprintf(w, "List values:    %d\n", m.ListValues)
	if m.SearchIndex {
		fmt.Fprintf(w, "Index entries:  %d\n", m.IndexEntries)
	}
	fmt.Fprintf(w, "Loaded in:      %dms\n", m.LoadMs)
}

func runDataset(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	m := metadata.NewDatasetMetadata(ds)
	m.SetLoadDuration(time.Since(start))
	if settings.SearchIndex {
		if idx, ok := newSearcher(ds.Categories()).(*search.Index); ok {
			m.SetIndex(idx.Len())
		}
	}

	return Output(cmd, &DatasetResult{m}, datasetFormat)
}

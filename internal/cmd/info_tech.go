package cmd

import (
	"io"

	"github.com/petrarca/techstack-lens/internal/nav"
	"github.com/petrarca/techstack-lens/internal/presenter"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/petrarca/techstack-lens/internal/view"
	"github.com/spf13/cobra"
)

var techFormat string
var techOutput string

var techCmd = &cobra.Command{
	Use:   "tech <category> <technology>",
	Short: "Show the record of a technology",
	Long: `Show every attribute of a technology: the known risk summary, each list
attribute as a section and quick stats with the item count per attribute.

Examples:
  techstack-lens info tech Databases Redis
  techstack-lens info tech "Common Application Stacks" LAMP --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runTech,
}

func init() {
	setupOutputFlags(techCmd, &techFormat, &techOutput)
}

// TechResult is the output for the tech command
type TechResult struct {
	Category       string        `json:"category" yaml:"category"`
	Tech           string        `json:"tech" yaml:"tech"`
	Location       string        `json:"location" yaml:"location"`
	ExportFileName string        `json:"export_file_name" yaml:"export_file_name"`
	Details        types.Details `json:"details" yaml:"details"`

	detail view.DetailView
}

func (r *TechResult) ToJSON() interface{} {
	return r
}

func (r *TechResult) ToText(w io.Writer) {
	presenter.New(presenter.NewStyles(w)).Detail(w, r.detail, nil)
}

func runTech(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	category, name := args[0], args[1]
	tech, err := ds.Technology(category, name)
	if err != nil {
		return err
	}
	detail, err := view.Detail(ds, category, name)
	if err != nil {
		return err
	}

	result := &TechResult{
		Category:       category,
		Tech:           tech.Name,
		Location:       nav.Technology(category, tech.Name).Location(),
		ExportFileName: detail.ExportFileName,
		Details:        tech.Details,
		detail:         detail,
	}
	return OutputToFile(cmd, result, techFormat, techOutput)
}

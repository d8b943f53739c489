package cmd

import (
	"fmt"
	"io"

	"github.com/petrarca/techstack-lens/internal/nav"
	"github.com/spf13/cobra"
)

var techsFormat string
var techsOutput string
var techsCategories []string

var techsCmd = &cobra.Command{
	Use:   "techs",
	Short: "List all available technologies",
	Long: `List all technologies in dataset order with their category.

Examples:
  techstack-lens info techs
  techstack-lens info techs --category Databases
  techstack-lens info techs --category 'Web*' --category 'Frameworks_*'`,
	Args: cobra.NoArgs,
	RunE: runTechs,
}

func init() {
	setupOutputFlags(techsCmd, &techsFormat, &techsOutput)
	techsCmd.Flags().StringSliceVar(&techsCategories, "category", nil, "Only list categories matching these glob patterns")
}

// TechInfo is one technology entry of the techs command
type TechInfo struct {
	Name       string `json:"name" yaml:"name"`
	Category   string `json:"category" yaml:"category"`
	Attributes int    `json:"attributes" yaml:"attributes"`
	Location   string `json:"location" yaml:"location"`
}

// TechsResult is the output for the techs command
type TechsResult struct {
	Technologies []TechInfo `json:"technologies" yaml:"technologies"`
}

func (r *TechsResult) ToJSON() interface{} {
	return r
}

func (r *TechsResult) ToText(w io.Writer) {
	for _, tech := range r.Technologies {
		fmt.Fprintf(w, "%s (%s)\n", tech.Name, tech.Category)
	}
	fmt.Fprintf(w, "\nTotal: %d technologies\n", len(r.Technologies))
}

func runTechs(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	categories, err := ds.Select(techsCategories)
	if err != nil {
		return err
	}

	technologies := make([]TechInfo, 0)
	for _, cat := range categories {
		for _, tech := range cat.Technologies {
			technologies = append(technologies, TechInfo{
				Name:       tech.Name,
				Category:   cat.Name,
				Attributes: tech.Details.Len(),
				Location:   nav.Technology(cat.Name, tech.Name).Location(),
			})
		}
	}

	result := &TechsResult{Technologies: technologies}
	return OutputToFile(cmd, result, techsFormat, techsOutput)
}

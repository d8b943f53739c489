package cmd

import (
	"fmt"
	"io"

	"github.com/petrarca/techstack-lens/internal/view"
	"github.com/spf13/cobra"
)

var categoriesFormat string
var categoriesOutput string

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List all technology categories",
	Long:  `List all technology categories in dataset order with their technology count and a preview of their technologies.`,
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	setupOutputFlags(categoriesCmd, &categoriesFormat, &categoriesOutput)
}

// CategoriesResult is the output for the categories command
type CategoriesResult struct {
	Categories []view.CategorySummary `json:"categories" yaml:"categories"`
	Count      int                    `json:"count" yaml:"count"`
}

func (r *CategoriesResult) ToJSON() interface{} {
	return r
}

func (r *CategoriesResult) ToText(w io.Writer) {
	fmt.Fprintf(w, "=== Technology Categories (%d) ===\n\n", r.Count)
	for _, c := range r.Categories {
		fmt.Fprintf(w, "%-28s %3d technologies\n", c.Name, c.Count)
		if c.Description != "" {
			fmt.Fprintf(w, "  %s\n", c.Description)
		}
	}
}

func runCategories(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	home := view.Home(ds)
	result := &CategoriesResult{
		Categories: home.Categories,
		Count:      len(home.Categories),
	}
	return OutputToFile(cmd, result, categoriesFormat, categoriesOutput)
}

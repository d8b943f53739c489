package cmd

import (
	"io"
	"strings"

	"github.com/petrarca/techstack-lens/internal/presenter"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/spf13/cobra"
)

var searchFormat string
var searchOutput string
var searchCategories []string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search technology names and list attributes",
	Long: `Search every technology name and every value of every list attribute for
the query, case-insensitively. Queries shorter than two characters match
nothing. At most 20 results are shown, in dataset order.

Examples:
  techstack-lens search actuator
  techstack-lens search "root:" --category Databases
  techstack-lens search .env --indexed --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	setupOutputFlags(searchCmd, &searchFormat, &searchOutput)
	searchCmd.Flags().StringSliceVar(&searchCategories, "category", nil, "Only search categories matching these glob patterns")
}

// SearchResult is the output for the search command
type SearchResult struct {
	Query   string               `json:"query" yaml:"query"`
	Count   int                  `json:"count" yaml:"count"`
	Results []types.SearchResult `json:"results" yaml:"results"`
}

func (r *SearchResult) ToJSON() interface{} {
	return r
}

func (r *SearchResult) ToText(w io.Writer) {
	presenter.New(presenter.NewStyles(w)).Results(w, r.Query, r.Results)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	categories, err := ds.Select(searchCategories)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results := newSearcher(categories).Search(query)
	logger.Debug("Search completed",
		"query", query,
		"searcher", searcherName(),
		"results", len(results))

	result := &SearchResult{
		Query:   query,
		Count:   len(results),
		Results: results,
	}
	return OutputToFile(cmd, result, searchFormat, searchOutput)
}

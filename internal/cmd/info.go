package cmd

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display information about categories, technologies and the dataset",
	Long:  `Display the dataset's categories, its technologies, a single technology record, and dataset metadata.`,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.AddCommand(categoriesCmd)
	infoCmd.AddCommand(techsCmd)
	infoCmd.AddCommand(techCmd)
	infoCmd.AddCommand(datasetCmd)
}

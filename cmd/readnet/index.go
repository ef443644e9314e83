package main

import (
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&IndexCommand)
}

var IndexCommand = cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index from the store",
	Long:  "Rebuild the search index from the store",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := paperService.Reindex()
		if err != nil {
			logger.Fatal("error reindexing: ", err)
		}

		logger.Printf("%d papers reindexed", n)
	},
}

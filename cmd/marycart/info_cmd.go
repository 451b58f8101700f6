package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func infoCmd(treeConfig *treeCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print information about a classification tree",
		Long:  `Print the feature, leaf and data counts of a classification tree`,
		Run: func(cmd *cobra.Command, args []string) {
			dictionary, tree, err := treeConfig.load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			leaves := tree.Leaves()
			fmt.Printf("features: %d\n", dictionary.NumFeatures())
			fmt.Printf("leaves: %d\n", len(leaves))
			fmt.Printf("data: %d\n", tree.DataCount())
			for i, l := range leaves {
				fmt.Printf("leaf %d: %d items\n", i, l.DataCount())
			}
		},
	}
}

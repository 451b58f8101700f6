package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marycart",
		Short: "marycart is a tool to work with unit-selection classification trees",
		Long:  `A tool to inspect classification trees over voice-database features, use them to classify feature vectors and export them in Wagon format`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), treeCmd(config))
	return rootCmd
}

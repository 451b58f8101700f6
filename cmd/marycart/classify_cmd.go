package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sdabuk/marytts/cart"
	"github.com/spf13/cobra"
)

type classifyCmdConfig struct {
	*treeCmdConfig
	values string
}

func classifyCmd(treeConfig *treeCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{treeCmdConfig: treeConfig}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a feature vector with a tree",
		Long:  `Classify a feature vector with a classification tree and print the payload of the selected leaf`,
		Run: func(cmd *cobra.Command, args []string) {
			if config.values == "" {
				fmt.Fprintln(os.Stderr, "required values flag was not set")
				os.Exit(1)
			}
			dictionary, tree, err := config.load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			vector, err := dictionary.ParseVector(0, config.values)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			leaf, err := tree.Classify(vector)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			fmt.Println(leafPayload(leaf))
		},
	}
	cmd.Flags().StringVarP(&(config.values), "values", "V", "", "feature values of the vector to classify, one per feature in metadata order, separated by spaces (required)")
	return cmd
}

func leafPayload(leaf *cart.LeafNode) string {
	units := []int{}
	if leaf.Kind() == cart.UnitIndexLeaf {
		units = leaf.Units()
	} else {
		for _, v := range leaf.Vectors() {
			units = append(units, v.UnitIndex())
		}
	}
	tokens := make([]string, 0, len(units))
	for _, u := range units {
		tokens = append(tokens, fmt.Sprintf("%d", u))
	}
	return strings.Join(tokens, " ")
}

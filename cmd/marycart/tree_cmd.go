package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/sdabuk/marytts/cart"
	"github.com/sdabuk/marytts/cart/json"
	"github.com/sdabuk/marytts/feature"
	"github.com/sdabuk/marytts/feature/yaml"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	metadataInput string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Manage classification trees",
		Long:  `Manage classification trees and use them to classify feature vectors`,
		Run: func(cmd *cobra.Command, args []string) {
			_, tree, err := config.load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Println(tree)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features used on the tree (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (required)")
	cmd.AddCommand(wagonCmd(config), classifyCmd(config), infoCmd(config))
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (tcc *treeCmdConfig) load() (*feature.Dictionary, *cart.CART, error) {
	if err := tcc.Validate(); err != nil {
		return nil, nil, err
	}
	tcc.Logf("Reading features from metadata at %s...", tcc.metadataInput)
	dictionary, err := yaml.ReadDictionaryFromFile(tcc.metadataInput)
	if err != nil {
		return nil, nil, err
	}
	tcc.Logf("Features from metadata read")
	tcc.Logf("Reading tree in JSON from %s...", tcc.treeInput)
	tree, err := loadTree(tcc.treeInput, dictionary)
	if err != nil {
		return nil, nil, err
	}
	tcc.Logf("Tree read")
	return dictionary, tree, nil
}

func loadTree(filepath string, dictionary *feature.Dictionary) (*cart.CART, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	tree, err := json.NewCodec(dictionary).Decode(data)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return tree, err
}

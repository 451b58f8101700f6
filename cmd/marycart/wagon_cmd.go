package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sdabuk/marytts/cart"
	"github.com/spf13/cobra"
)

type wagonCmdConfig struct {
	*treeCmdConfig
	output string
}

func wagonCmd(treeConfig *treeCmdConfig) *cobra.Command {
	config := &wagonCmdConfig{treeCmdConfig: treeConfig}
	cmd := &cobra.Command{
		Use:   "wagon",
		Short: "Export a classification tree in Wagon format",
		Long:  `Export a classification tree as nested text in Wagon format, to a file or to stdout`,
		Run: func(cmd *cobra.Command, args []string) {
			_, tree, err := config.load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			err = config.export(tree)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a file the Wagon text will be written to (defaults to stdout)")
	return cmd
}

func (wcc *wagonCmdConfig) export(tree *cart.CART) error {
	if wcc.output == "" {
		if err := tree.WriteWagon(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}
	wcc.Logf("Writing Wagon text to %s...", wcc.output)
	f, err := os.Create(wcc.output)
	if err != nil {
		return fmt.Errorf("creating Wagon output file %s: %v", wcc.output, err)
	}
	w := bufio.NewWriter(f)
	err = tree.WriteWagon(w)
	if err == nil {
		err = w.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing Wagon text to %s: %v", wcc.output, err)
	}
	wcc.Logf("Wagon text written")
	return nil
}

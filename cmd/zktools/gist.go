package main

import (
	"github.com/spf13/cobra"

	"github.com/zkfm/zktools/internal/gist"
)

var gistCmd = &cobra.Command{
	Use:   "gist <id> <filename>",
	Short: "Print one file of a GitHub gist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := gist.NewClient(newClient(), cfg.GistAPI).Content(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return writeOutput(cmd, content)
	},
}

func init() {
	rootCmd.AddCommand(gistCmd)
}

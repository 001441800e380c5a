package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/zkfm/zktools/internal/textdoc"
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify [file]",
	Short: "Flatten Markdown links for plain text targets",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		return writeOutput(cmd, textdoc.Simplify(text))
	},
}

var extractLinksCmd = &cobra.Command{
	Use:   "extract-links [file]",
	Short: "Print every http(s) URL found in the input, one per line",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		return writeOutput(cmd, strings.Join(textdoc.ExtractLinks(text), "\n"))
	},
}

func init() {
	rootCmd.AddCommand(simplifyCmd)
	rootCmd.AddCommand(extractLinksCmd)
}

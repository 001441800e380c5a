package main

import (
	"github.com/spf13/cobra"

	"github.com/zkfm/zktools/internal/textdoc"
)

var reformatCmd = &cobra.Command{
	Use:   "reformat [file]",
	Short: "Replace link lines in show-notes text with classified lines",
	Long: "Every line of the input that starts with a URL (or a Markdown link) is " +
		"replaced by its classified plain or Markdown line. Other lines pass through.",
	Args: cobra.MaximumNArgs(1),
	RunE: runReformat,
}

var (
	reformatMarkdown bool
	reformatMaxLen   int
	reformatTools    bool
)

func init() {
	reformatCmd.Flags().BoolVarP(&reformatMarkdown, "markdown", "m", false, "Emit Markdown lines instead of plain lines")
	reformatCmd.Flags().IntVar(&reformatMaxLen, "max-len", 0, "Truncate output lines longer than this (0 disables)")
	reformatCmd.Flags().BoolVar(&reformatTools, "tools", false, "Tools context: omit the publication from GitHub lines")

	rootCmd.AddCommand(reformatCmd)
}

func runReformat(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	r := textdoc.NewReformatter(newClassifier(false, reformatTools), logger)
	out, err := r.Reformat(cmd.Context(), text, reformatMarkdown, reformatMaxLen)
	if err != nil {
		return err
	}
	return writeOutput(cmd, out)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/zkfm/zktools/internal/transcript"
)

var srtCmd = &cobra.Command{
	Use:   "srt [file]",
	Short: "Convert a speaker transcript to SRT subtitles",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSRT,
}

func init() {
	rootCmd.AddCommand(srtCmd)
}

func runSRT(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	out, err := transcript.ToSRT(text)
	if err != nil {
		return err
	}
	return writeOutput(cmd, out)
}

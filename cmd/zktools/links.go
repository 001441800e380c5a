package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zkfm/zktools/internal/linkdoc"
	"github.com/zkfm/zktools/internal/observability"
	"github.com/zkfm/zktools/internal/rendering"
	"github.com/zkfm/zktools/internal/schemas"
)

var linksCmd = &cobra.Command{
	Use:   "links [file]",
	Short: "Classify a list of links into show-notes lines",
	Long: "Reads whitespace separated URLs from a file or stdin, classifies each one " +
		"(GitHub, Twitter, podcast episode, video, paper, topic or generic page) and " +
		"prints the resulting collection.",
	Args: cobra.MaximumNArgs(1),
	RunE: runLinks,
}

var (
	linksFormat   string
	linksSort     bool
	linksTools    bool
	linksStrict   bool
	linksTemplate string
	linksVerbose  bool
)

func init() {
	linksCmd.Flags().StringVarP(&linksFormat, "format", "f", "plain", "Output format: plain, markdown, json, table, html")
	linksCmd.Flags().BoolVar(&linksSort, "sort", true, "Sort the deduplicated input URLs before classifying (--sort=false keeps input order)")
	linksCmd.Flags().BoolVar(&linksTools, "tools", false, "Tools context: omit the publication from GitHub lines")
	linksCmd.Flags().BoolVar(&linksStrict, "strict", false, "Abort on the first link that cannot be classified")
	linksCmd.Flags().StringVarP(&linksTemplate, "template", "t", "", "Render through a text/template file instead of --format")
	linksCmd.Flags().BoolVarP(&linksVerbose, "verbose", "v", false, "Print a collection summary to stderr")

	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	format, err := rendering.ParseFormat(linksFormat)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	classifier := newClassifier(linksStrict, linksTools)
	coll, err := classifier.ClassifyAll(cmd.Context(), linkdoc.SplitURLs(text), linksSort)
	if err != nil {
		return fmt.Errorf("failed to classify links: %w", err)
	}

	if linksVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintCollectionSummary(coll)
	}

	if linksTemplate != "" {
		out, err := rendering.RenderTemplate(coll, linksTemplate)
		if err != nil {
			return err
		}
		return writeOutput(cmd, out)
	}

	var buf bytes.Buffer
	if err := rendering.Render(&buf, format, coll); err != nil {
		return err
	}
	if format == rendering.FormatJSON {
		if err := schemas.ValidateLinkCollection(buf.String()); err != nil {
			return fmt.Errorf("link collection does not match its schema: %w", err)
		}
	}
	return writeOutput(cmd, buf.String())
}

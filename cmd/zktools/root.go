package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zkfm/zktools/internal/config"
	"github.com/zkfm/zktools/internal/fetch"
	"github.com/zkfm/zktools/internal/linkdoc"
	"github.com/zkfm/zktools/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "zktools",
	Short: "Show-notes link and feed archive tooling",
	Long: "zktools classifies the links mentioned in a podcast episode into consistent " +
		"show-notes lines, reformats show-notes text and archives podcast feeds.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	rootConfigFile string
	rootLogLevel   string
	rootPretty     string

	cfg    *config.Config
	logger *zap.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigFile, "config", "c", "", "Path to YAML config file (default $ZKTOOLS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&rootPretty, "pretty", "", "Human readable logs: auto, true, false")
}

// setup loads configuration and builds the logger once per invocation.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(rootConfigFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		loaded.LogLevel = rootLogLevel
	}
	if cmd.Flags().Changed("pretty") {
		loaded.PrettyLog = rootPretty
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logging.New(loaded.LogLevel, loaded.PrettyLog)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l
	return nil
}

// newClient returns an HTTP client configured from cfg.
func newClient() *fetch.Client {
	return fetch.NewClient(&fetch.Options{
		Timeout:    cfg.Timeout,
		UserAgent:  cfg.UserAgent,
		UseBrowser: cfg.UseBrowser,
	}, logger)
}

// newClassifier returns a classifier whose fetches are memoized for this run.
func newClassifier(strict, tools bool) *linkdoc.Classifier {
	opts := linkdoc.Options{
		IDLength:       cfg.IDLength,
		Concurrency:    cfg.Concurrency,
		Strict:         cfg.Strict || strict,
		ToolsContext:   tools,
		PodcastDomain:  cfg.Podcast.Domain,
		PodcastName:    cfg.Podcast.Name,
		TopicDomains:   cfg.TopicDomains,
		Shorteners:     cfg.Shorteners,
		OEmbedEndpoint: cfg.OEmbedEndpoint,
	}
	return linkdoc.NewClassifier(fetch.NewCachedFetcher(newClient()), opts, logger)
}

// readInput reads the file named by args[0], or the command's stdin when
// there is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// writeOutput writes s to the command's stdout, adding a final newline.
func writeOutput(cmd *cobra.Command, s string) error {
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(cmd.OutOrStdout(), s)
	return err
}

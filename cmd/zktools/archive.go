package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zkfm/zktools/internal/feedarchive"
	"github.com/zkfm/zktools/internal/observability"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [feed-url]",
	Short: "Archive a podcast or ePrint feed to disk",
	Long: "Downloads every entry of the feed (episode audio, artwork, transcripts or " +
		"paper PDFs) into <out>/<feed name>-out and writes dated backups of the feed " +
		"and a hash manifest. The feed URL defaults to the configured one.",
	Args: cobra.MaximumNArgs(1),
	RunE: runArchive,
}

var (
	archiveMode      string
	archiveOutDir    string
	archiveOverwrite bool
	archiveVerbose   bool
)

func init() {
	archiveCmd.Flags().StringVar(&archiveMode, "mode", "podcast", "Feed layout: podcast or eprint")
	archiveCmd.Flags().StringVarP(&archiveOutDir, "out", "o", "", "Parent directory of the archive (default from config)")
	archiveCmd.Flags().BoolVar(&archiveOverwrite, "overwrite", false, "Re-download files that already exist")
	archiveCmd.Flags().BoolVarP(&archiveVerbose, "verbose", "v", false, "Print an archive summary to stderr")

	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	mode, err := feedarchive.ParseMode(archiveMode)
	if err != nil {
		return err
	}

	opts := feedarchive.Options{
		FeedURL:   cfg.Archive.FeedURL,
		OutDir:    cfg.Archive.OutDir,
		Overwrite: cfg.Archive.Overwrite || archiveOverwrite,
		Mode:      mode,
	}
	if len(args) == 1 {
		opts.FeedURL = args[0]
	}
	if archiveOutDir != "" {
		opts.OutDir = archiveOutDir
	}

	manifest, err := feedarchive.New(newClient(), opts, logger).Save(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", opts.FeedURL, err)
	}

	if archiveVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintArchiveManifest(manifest)
	}
	if len(manifest.Failures) > 0 {
		logger.Warn("archive finished with failures", zap.Int("failures", len(manifest.Failures)))
	}
	return writeOutput(cmd, manifest.Dir)
}

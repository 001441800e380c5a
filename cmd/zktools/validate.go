package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zkfm/zktools/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a saved link collection (or any JSON file) against a schema",
	Long: "Checks JSON written by 'links --format json' against the embedded link " +
		"collection schema. With --schema the file is checked against that schema instead.",
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var validateSchemaFile string

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "", "Path to a JSON Schema file (default: embedded link collection schema)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateSchemaFile != "" {
		if len(args) == 0 || args[0] == "-" {
			return fmt.Errorf("--schema requires a JSON file argument")
		}
		if err := schemas.ValidateJSON(validateSchemaFile, args[0]); err != nil {
			return err
		}
		return writeOutput(cmd, fmt.Sprintf("%s: valid", args[0]))
	}

	content, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if err := schemas.ValidateLinkCollection(content); err != nil {
		return err
	}

	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		name = args[0]
	}
	return writeOutput(cmd, fmt.Sprintf("%s: valid", name))
}

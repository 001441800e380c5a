// Package schemas validates zktools JSON documents against JSON Schemas.
package schemas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/zkfm/zktools/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSON validates the JSON file at jsonPath against the schema file at
// schemaPath. The validate command uses it for --schema.
func ValidateJSON(schemaPath, jsonPath string) error {
	schema, err := readFile("schema", schemaPath)
	if err != nil {
		return err
	}
	document, err := readFile("JSON", jsonPath)
	if err != nil {
		return err
	}

	if err := ValidateJSONString(schema, document); err != nil {
		var loadErr *SchemaLoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = schemaPath
		}
		return err
	}
	return nil
}

func readFile(kind, path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s file not found: %s", kind, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s file %s: %w", kind, path, err)
	}
	return string(data), nil
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return resultError(result)
}

// ValidateLinkCollection validates a rendered link collection against the
// embedded link_collection schema.
func ValidateLinkCollection(jsonContent string) error {
	schema, err := embedded.FS.ReadFile(embedded.LinkCollection)
	if err != nil {
		return &SchemaLoadError{Path: embedded.LinkCollection, Message: "schema not embedded", Cause: err}
	}
	return ValidateJSONString(string(schema), jsonContent)
}

// resultError converts a failed result to a *ValidationError.
func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

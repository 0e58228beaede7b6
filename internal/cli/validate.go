package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/jsonschema"
	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Schema string                   `json:"schema"`
	Hash   string                   `json:"hash,omitempty"`
	Errors []schema.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema> <document>",
		Short: "Validate an acset document against a schema",
		Long: `Validate an acset document against a predefined schema or a Catlab
JSON schema file.

Checks structure (declared tables and fields, cell types) and
referential integrity (every morphism cell must point at an existing
row of its codomain table). Documents may be JSON or YAML; YAML is
normalized to JSON before validation.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaArg, docPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sch, err := resolveSchema(schemaArg)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			_ = formatter.Error(ErrCodeUnknownSchema, exitErr.Message, BuiltinSchemaNames())
			return exitErr
		}
		return outputValidateCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	data, err := readDocument(docPath)
	if err != nil {
		return outputValidateCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("reading document: %v", err))
	}

	formatter.VerboseLog("Validating %s against schema %s", docPath, sch.Name)

	validationErrors, err := jsonschema.ValidateDocument(sch, data)
	if err != nil {
		return outputValidateCommandError(formatter, ErrCodeDocInvalid, fmt.Sprintf("parsing document: %v", err))
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, sch.Name, validationErrors)
	}

	result := ValidationResult{Valid: true, Schema: sch.Name}
	if acs, importErr := acset.Import(sch.Name, sch, data); importErr == nil {
		if hash, hashErr := acs.Hash(); hashErr == nil {
			result.Hash = hash
		}
	}

	return outputValidateSuccess(formatter, result)
}

// readDocument reads a document file, normalizing YAML to JSON.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalizing YAML to JSON: %w", err)
	}
	return normalized, nil
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Document is a valid %s instance\n", result.Schema)
	if result.Hash != "" {
		fmt.Fprintf(formatter.Writer, "  hash: %s\n", result.Hash)
	}
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, schemaName string, errs []schema.ValidationError) error {
	code := ErrCodeDocInvalid
	for _, e := range errs {
		if strings.Contains(e.Message, "out of range") {
			code = ErrCodeRefInvalid
			break
		}
	}

	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Schema: schemaName, Errors: errs}
		if err := formatter.Error(code, fmt.Sprintf("document failed validation with %d error(s)", len(errs)), result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", e.Field, e.Message)
	}
	fmt.Fprintln(formatter.Writer)

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

func outputValidateCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

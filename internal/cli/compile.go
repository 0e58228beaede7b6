package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output directory for Catlab JSON files
}

// CompiledSchema pairs a schema name with its Catlab wire form.
type CompiledSchema struct {
	Name   string              `json:"name"`
	Catlab schema.CatlabSchema `json:"catlab"`
}

// CompilationResult holds the compiled schemas.
type CompilationResult struct {
	Schemas []CompiledSchema `json:"schemas"`
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	SchemaCount int
	TotalObs    int
	TotalProps  int
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema-dir>",
		Short: "Compile CUE schema declarations to Catlab JSON",
		Long: `Compile CUE schema declarations to the Catlab JSON schema format.

The compiler parses CUE files, checks object, morphism and attribute
declarations for consistency, and outputs versioned Catlab JSON.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory for Catlab JSON files")

	return cmd
}

func runCompile(opts *CompileOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	// Use shared loader with collect-all mode
	loadResult, loadErrors := LoadSchemas(schemaDir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, schemaDir)

	for _, sch := range loadResult.Schemas {
		formatter.VerboseLog("Compiling schema: %s", sch.Name)
	}

	// Handle compilation errors
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	// Build result
	result := &CompilationResult{}
	for _, sch := range loadResult.Schemas {
		result.Schemas = append(result.Schemas, CompiledSchema{Name: sch.Name, Catlab: sch.Catlab()})
	}

	// Calculate statistics
	stats := calculateStats(loadResult.Schemas)

	// Write one Catlab JSON file per schema if --output specified
	if opts.Output != "" {
		for _, sch := range loadResult.Schemas {
			path := filepath.Join(opts.Output, sch.Name+".json")
			if err := sch.WriteCatlabFile(path); err != nil {
				return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", path, err), nil)
			}
		}
	}

	// Output success
	return outputCompileSuccess(formatter, result, stats, opts.Output)
}

// calculateStats computes summary statistics from compiled schemas.
func calculateStats(schemas []*schema.Schema) CompilationStats {
	stats := CompilationStats{SchemaCount: len(schemas)}
	for _, sch := range schemas {
		stats.TotalObs += len(sch.Obs)
		stats.TotalProps += len(sch.Homs) + len(sch.Attrs)
	}
	return stats
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, stats CompilationStats, outputDir string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d schema(s)\n\n", stats.SchemaCount)

	if len(result.Schemas) > 0 {
		fmt.Fprintln(formatter.Writer, "Schemas:")
		for _, sch := range result.Schemas {
			fmt.Fprintf(formatter.Writer, "  %s: %d object(s), %d morphism(s), %d attribute(s)\n",
				sch.Name, len(sch.Catlab.Obs), len(sch.Catlab.Homs), len(sch.Catlab.Attrs))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if outputDir != "" {
		fmt.Fprintf(formatter.Writer, "Wrote Catlab JSON to %s\n", outputDir)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Compilation errors are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts a code and message from a load or compile error.
func parseCompileError(err error) (code, message string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

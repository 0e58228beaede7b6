package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlgebraicJulia/go-acsets/internal/jsonschema"
	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	Output string // output file path
	ID     string // $id URI for the generated JSON Schema
	Catlab bool   // emit Catlab JSON instead of JSON Schema
	List   bool   // list predefined schemas
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema [<name>|<catlab.json>]",
		Short: "Emit JSON Schema for a predefined or compiled schema",
		Long: `Emit the JSON Schema (draft 2020-12) for a predefined schema or
a Catlab JSON schema file.

Predefined schema names include PetriNet, LabelledReactionNet, MiraNet,
SummationDecapode and StockFlow. Use --list to see all of them, or
--catlab to emit the Catlab JSON form instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.ID, "id", "", "$id URI for the generated JSON Schema")
	cmd.Flags().BoolVar(&opts.Catlab, "catlab", false, "emit Catlab JSON instead of JSON Schema")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list predefined schema names")

	return cmd
}

func runSchema(opts *SchemaOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.List {
		return outputSchemaList(formatter)
	}

	if len(args) == 0 {
		return outputSchemaError(formatter, ErrCodeGeneric, "schema name or Catlab JSON file required (or --list)")
	}

	sch, err := resolveSchema(args[0])
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			_ = formatter.Error(ErrCodeUnknownSchema, exitErr.Message, BuiltinSchemaNames())
			return exitErr
		}
		return outputSchemaError(formatter, ErrCodeGeneric, err.Error())
	}

	formatter.VerboseLog("Resolved schema %s: %d object(s), %d morphism(s), %d attribute(s)",
		sch.Name, len(sch.Obs), len(sch.Homs), len(sch.Attrs))

	var out []byte
	if opts.Catlab {
		out, err = sch.MarshalCatlab()
	} else {
		out, err = jsonschema.Generate(sch, opts.ID)
	}
	if err != nil {
		return outputSchemaError(formatter, ErrCodeGeneric, fmt.Sprintf("generating schema output: %v", err))
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			return outputSchemaError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		formatter.VerboseLog("Wrote %d byte(s) to %s", len(out), opts.Output)
		return formatter.Success(fmt.Sprintf("Wrote schema for %s to %s", sch.Name, opts.Output))
	}

	// Raw schema bytes go to stdout regardless of --format: the schema
	// itself is the payload.
	_, err = formatter.Writer.Write(out)
	return err
}

// resolveSchema resolves a predefined schema name or a Catlab JSON file path.
func resolveSchema(arg string) (*schema.Schema, error) {
	if sch, ok := BuiltinSchema(arg); ok {
		return sch, nil
	}
	if strings.HasSuffix(arg, ".json") {
		name := strings.TrimSuffix(filepath.Base(arg), ".json")
		sch, err := schema.ReadCatlabFile(name, arg)
		if err != nil {
			return nil, err
		}
		return sch, nil
	}
	return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown schema %q", arg))
}

func outputSchemaList(formatter *OutputFormatter) error {
	names := BuiltinSchemaNames()
	if formatter.Format == "json" {
		return formatter.Success(names)
	}
	fmt.Fprintln(formatter.Writer, "Predefined schemas:")
	for _, name := range names {
		fmt.Fprintf(formatter.Writer, "  %s\n", name)
	}
	return nil
}

func outputSchemaError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

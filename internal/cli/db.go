package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/store"
)

// DBOptions holds flags shared by the db subcommands.
type DBOptions struct {
	*RootOptions
	Path string // SQLite database path
}

// NewDBCommand creates the db command with its subcommands.
func NewDBCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DBOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Persist acset instances in a SQLite store",
		Long: `Persist and retrieve acset instances in a content-addressed SQLite
store. Instances are keyed by the hash of their canonical form, so
saving the same document twice is a no-op.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Path, "db", "acsets.db", "SQLite database path")

	cmd.AddCommand(newDBSaveCommand(opts))
	cmd.AddCommand(newDBLoadCommand(opts))
	cmd.AddCommand(newDBListCommand(opts))
	cmd.AddCommand(newDBVerifyCommand(opts))

	return cmd
}

func newDBSaveCommand(opts *DBOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:           "save <schema> <document>",
		Short:         "Validate and save an acset instance",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBSave(opts, args[0], args[1], name, cmd)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "instance name (defaults to the document file name)")

	return cmd
}

func newDBLoadCommand(opts *DBOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:           "load <hash>",
		Short:         "Load a stored instance by hash",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBLoad(opts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")

	return cmd
}

func newDBListCommand(opts *DBOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored instances",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBList(opts, cmd)
		},
	}
}

func newDBVerifyCommand(opts *DBOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "verify",
		Short:         "Recompute hashes for every stored instance",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBVerify(opts, cmd)
		},
	}
}

func runDBSave(opts *DBOptions, schemaArg, docPath, name string, cmd *cobra.Command) error {
	formatter := newDBFormatter(opts, cmd)

	sch, err := resolveSchema(schemaArg)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			_ = formatter.Error(ErrCodeUnknownSchema, exitErr.Message, BuiltinSchemaNames())
			return exitErr
		}
		return outputDBError(formatter, ErrCodeGeneric, err.Error())
	}

	data, err := readDocument(docPath)
	if err != nil {
		return outputDBError(formatter, ErrCodeNotFound, fmt.Sprintf("reading document: %v", err))
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	}

	acs, err := acset.Import(name, sch, data)
	if err != nil {
		return outputDBError(formatter, ErrCodeDocInvalid, fmt.Sprintf("importing document: %v", err))
	}
	if verrs := acs.Validate(); len(verrs) > 0 {
		return outputValidationErrors(formatter, sch.Name, verrs)
	}

	st, err := store.Open(opts.Path)
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("opening store: %v", err))
	}
	defer st.Close()

	hash, err := st.SaveInstance(cmd.Context(), acs)
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("saving instance: %v", err))
	}

	formatter.VerboseLog("Saved instance %s (schema %s) to %s", name, sch.Name, opts.Path)

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{
			"hash":   hash,
			"name":   name,
			"schema": sch.Name,
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ Saved %s\n  hash: %s\n", name, hash)
	return nil
}

func runDBLoad(opts *DBOptions, hash, output string, cmd *cobra.Command) error {
	formatter := newDBFormatter(opts, cmd)

	st, err := store.Open(opts.Path)
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("opening store: %v", err))
	}
	defer st.Close()

	acs, err := st.LoadInstance(cmd.Context(), hash)
	if errors.Is(err, store.ErrNotFound) {
		return outputDBError(formatter, ErrCodeNotFound, fmt.Sprintf("no instance with hash %s", hash))
	}
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("loading instance: %v", err))
	}

	if output != "" {
		if err := acs.WriteFile(output); err != nil {
			return outputDBError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		return formatter.Success(fmt.Sprintf("Wrote instance %s to %s", hash, output))
	}

	out, err := acs.ExportIndent()
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("exporting instance: %v", err))
	}
	_, err = formatter.Writer.Write(out)
	return err
}

func runDBList(opts *DBOptions, cmd *cobra.Command) error {
	formatter := newDBFormatter(opts, cmd)

	st, err := store.Open(opts.Path)
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("opening store: %v", err))
	}
	defer st.Close()

	infos, err := st.ListInstances(cmd.Context())
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("listing instances: %v", err))
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No instances stored")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s  %s\n", info.Hash, info.Schema, info.Name, info.CreatedAt)
	}
	return nil
}

func runDBVerify(opts *DBOptions, cmd *cobra.Command) error {
	formatter := newDBFormatter(opts, cmd)

	st, err := store.Open(opts.Path)
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("opening store: %v", err))
	}
	defer st.Close()

	mismatches, err := st.Verify(cmd.Context())
	if err != nil {
		return outputDBError(formatter, ErrCodeGeneric, fmt.Sprintf("verifying store: %v", err))
	}

	if len(mismatches) == 0 {
		return formatter.Success("✓ All stored instances verify")
	}

	if formatter.Format == "json" {
		if err := formatter.Error(ErrCodeHashMismatch,
			fmt.Sprintf("%d instance(s) failed verification", len(mismatches)), mismatches); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Verification failed")
		for _, m := range mismatches {
			fmt.Fprintf(formatter.Writer, "  %s (%s): recomputed %s\n", m.Hash, m.Name, m.Computed)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d instance(s) failed verification", len(mismatches)))
}

func newDBFormatter(opts *DBOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func outputDBError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/stockflow"
)

// Conversion directions accepted by the convert command.
const (
	ConvertAcsetToAMR = "acset-to-amr"
	ConvertAMRToAcset = "amr-to-acset"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Output string // output file path
	Name   string // instance name for amr-to-acset
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <acset-to-amr|amr-to-acset> <input>",
		Short: "Convert between stock-flow acsets and AMR",
		Long: `Convert a stock-flow acset document to an ASKEM Model Representation
(AMR) document, or back.

acset-to-amr reads a stock_flow acset instance and emits AMR JSON.
amr-to-acset reads an AMR stock-and-flow model and emits the acset
instance it denotes.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Name, "name", "", "instance name for amr-to-acset (defaults to the input file name)")

	return cmd
}

func runConvert(opts *ConvertOptions, direction, inputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var out []byte
	var err error
	switch direction {
	case ConvertAcsetToAMR:
		out, err = convertAcsetToAMR(inputPath, formatter)
	case ConvertAMRToAcset:
		name := opts.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		}
		out, err = convertAMRToAcset(name, inputPath, formatter)
	default:
		return outputConvertError(formatter, ErrCodeGeneric,
			fmt.Sprintf("unknown direction %q: must be %s or %s", direction, ConvertAcsetToAMR, ConvertAMRToAcset))
	}
	if err != nil {
		return outputConvertError(formatter, ErrCodeConvertFailed, err.Error())
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			return outputConvertError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		return formatter.Success(fmt.Sprintf("Wrote %s to %s", direction, opts.Output))
	}

	_, err = formatter.Writer.Write(out)
	return err
}

func convertAcsetToAMR(path string, formatter *OutputFormatter) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading acset document: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	acs, err := acset.Import(name, stockflow.SchStockFlow, data)
	if err != nil {
		return nil, fmt.Errorf("importing acset document: %w", err)
	}

	formatter.VerboseLog("Converting %d stock(s), %d flow(s), %d link(s)",
		acs.NParts(stockflow.ObStock), acs.NParts(stockflow.ObFlow), acs.NParts(stockflow.ObLink))

	amr, err := stockflow.ToAMR(acs)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(amr); err != nil {
		return nil, fmt.Errorf("marshaling AMR: %w", err)
	}
	return buf.Bytes(), nil
}

func convertAMRToAcset(name, path string, formatter *OutputFormatter) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading AMR document: %w", err)
	}
	var amr stockflow.AMR
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&amr); err != nil {
		return nil, fmt.Errorf("parsing AMR: %w", err)
	}

	acs, err := stockflow.FromAMR(name, &amr)
	if err != nil {
		return nil, err
	}

	formatter.VerboseLog("Converted %d stock(s), %d flow(s), %d link(s)",
		acs.NParts(stockflow.ObStock), acs.NParts(stockflow.ObFlow), acs.NParts(stockflow.ObLink))

	return acs.ExportIndent()
}

func outputConvertError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

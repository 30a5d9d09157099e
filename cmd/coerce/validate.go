package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/coerce"
	"github.com/dmitrymomot/coerce/pkg/schema"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

type validateOptions struct {
	input     string
	strict    string
	output    string
	hideInput bool
}

func newValidateCmd() *cobra.Command {
	var opts validateOptions
	cmd := &cobra.Command{
		Use:   "validate SCHEMA [DATA]",
		Short: "Validate a data file against a schema",
		Long: `Validates DATA (or stdin when DATA is omitted or "-") against the schema file SCHEMA.

Input formats:
  json     raw JSON, parsed by the engine
  yaml     YAML decoded into Go values
  strings  KEY=VALUE lines, validated like environment variables

On success the coerced value is printed as JSON. Validation errors are
printed in the chosen output format and the command exits with status 2.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "json", "Data format: json, yaml or strings")
	cmd.Flags().StringVar(&opts.strict, "strict", "", "Force strict (true) or lax (false) mode for the whole call")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Error report format: text or json")
	cmd.Flags().BoolVar(&opts.hideInput, "hide-input", false, "Leave input values out of error reports")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts validateOptions) error {
	log, err := cliLogger(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, err := coerce.LoadConfig()
	if err != nil {
		return err
	}
	if opts.hideInput {
		cfg.HideInput = true
	}

	s, err := schema.LoadFile(args[0])
	if err != nil {
		return err
	}
	v, err := coerce.New(s, coerce.WithConfig(cfg), coerce.WithLogger(log))
	if err != nil {
		return err
	}

	var callOpts []coerce.CallOption
	if opts.strict != "" {
		switch strings.ToLower(opts.strict) {
		case "true":
			callOpts = append(callOpts, coerce.WithStrict(true))
		case "false":
			callOpts = append(callOpts, coerce.WithStrict(false))
		default:
			return fmt.Errorf("--strict must be true or false, got %q", opts.strict)
		}
	}

	data, err := readData(cmd, args)
	if err != nil {
		return err
	}

	var out any
	switch opts.input {
	case "json":
		out, err = v.ValidateJSON(data, callOpts...)
	case "yaml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
		out, err = v.ValidateNative(doc, callOpts...)
	case "strings":
		out, err = v.ValidateStrings(parseKeyValues(string(data)), callOpts...)
	default:
		return fmt.Errorf("unknown input format %q", opts.input)
	}

	var verr *valerr.ValidationError
	if errors.As(err, &verr) {
		if err := printReport(cmd.OutOrStdout(), verr, opts.output); err != nil {
			return err
		}
		return errInvalid
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readData(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) < 2 || args[1] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[1])
}

// parseKeyValues reads KEY=VALUE lines. Blank lines and lines starting with
// '#' are skipped; a later key wins.
func parseKeyValues(s string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		out[strings.TrimSpace(key)] = value
	}
	return out
}

func printReport(w io.Writer, verr *valerr.ValidationError, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(verr.Details())
	case "text", "":
		_, err := fmt.Fprintln(w, verr.Error())
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

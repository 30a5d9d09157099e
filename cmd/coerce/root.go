package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/coerce/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errInvalid marks a run whose input failed validation; the report has
// already been printed.
var errInvalid = errors.New("input is invalid")

func exitCode(err error) int {
	if errors.Is(err, errInvalid) {
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "coerce",
		Short:         "Validate and coerce data against declarative schemas",
		Long:          `coerce checks JSON, YAML or string data against a schema, converting compatible values (lax mode) or requiring exact types (strict mode).`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", string(logger.FormatText), "Log format: text or json")

	cmd.AddCommand(newValidateCmd(), newServeCmd(), newVersionCmd())
	return cmd
}

// cliLogger builds the stderr logger from the persistent flags.
func cliLogger(cmd *cobra.Command, w io.Writer) (*slog.Logger, error) {
	levelFlag, _ := cmd.Flags().GetString("log-level")
	formatFlag, _ := cmd.Flags().GetString("log-format")
	level, err := logger.ParseLevel(levelFlag)
	if err != nil {
		return nil, err
	}
	format := logger.Format(formatFlag)
	if format != logger.FormatJSON && format != logger.FormatText {
		return nil, errors.New("log format must be text or json")
	}
	return logger.New(logger.WithOutput(w), logger.WithLevel(level), logger.WithFormat(format)), nil
}

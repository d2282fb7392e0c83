package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tbxark/medassist/config"
	"github.com/tbxark/medassist/provider"
)

const (
	exitFailure      = 1
	exitCommandError = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	Code    int
	Message string
	Err     error
}

func (e *exitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *exitError) Unwrap() error {
	return e.Err
}

func exitCode(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitFailure
}

type rootOptions struct {
	ConfigPath string
	Verbose    bool

	cfg        config.Config
	logOut     io.Writer
	newInvoker func(ctx context.Context, cfg config.Config) (provider.Invoker, error)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{
		logOut:     os.Stderr,
		newInvoker: newInvoker,
	}
	return buildRootCommand(opts)
}

func buildRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "medassist",
		Short:         "Clinical AI action assistant",
		Long:          "Runs AI coding, advisory, treatment suggestion, claims and EHR draft actions over a patient encounter.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return &exitError{Code: exitCommandError, Message: "load config", Err: err}
			}
			opts.cfg = cfg
			level, _ := cfg.Log.SlogLevel()
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(opts.logOut, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newDispatchCommand(opts))
	cmd.AddCommand(newSchemaCommand(opts))

	return cmd
}

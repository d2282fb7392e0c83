package main

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/gate"
	"github.com/tbxark/medassist/lifecycle"
	"github.com/tbxark/medassist/notify"
)

type dispatchOptions struct {
	Format string
}

func newDispatchCommand(root *rootOptions) *cobra.Command {
	opts := &dispatchOptions{}
	cmd := &cobra.Command{
		Use:       "dispatch <kind>",
		Short:     "Run one AI action on the clinical context and print the result",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return &exitError{Code: exitCommandError, Message: fmt.Sprintf("invalid format %q: must be text or json", opts.Format)}
			}
			kind, err := action.ParseKind(args[0])
			if err != nil {
				return &exitError{Code: exitCommandError, Message: "parse action", Err: err}
			}
			ctx := cmd.Context()
			store, err := newStore(root.cfg)
			if err != nil {
				return &exitError{Code: exitCommandError, Message: "load clinical context", Err: err}
			}
			errOut := cmd.ErrOrStderr()
			notices := notify.NewChannel(0)
			defer drainNotices(errOut, notices)
			machine, err := newMachine(ctx, root, store, notices)
			if err != nil {
				return err
			}
			stop := machine.Subscribe(func(s lifecycle.State) {
				if s.Busy() {
					renderProgress(errOut, s.Title)
				}
			})
			defer stop()

			ticket, err := machine.Dispatch(ctx, kind)
			if err != nil {
				if errors.Is(err, gate.ErrValidation) {
					return &exitError{Code: exitFailure, Message: "validation failed", Err: err}
				}
				return err
			}
			outcome, err := ticket.Wait(ctx)
			if outcome != lifecycle.OutcomeResolved {
				if err == nil {
					err = errors.New(outcome.String())
				}
				return &exitError{Code: exitFailure, Message: fmt.Sprintf("%s failed", kind.DisplayName()), Err: err}
			}

			state := machine.State()
			if opts.Format == "json" {
				out, err := sonic.ConfigStd.MarshalIndent(state, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			return renderState(cmd.OutOrStdout(), state)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	return cmd
}

func kindNames() []string {
	kinds := action.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	return names
}

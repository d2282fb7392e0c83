package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/spf13/cobra"
	"github.com/tbxark/medassist/agent"
	"github.com/tbxark/medassist/clinical"
	"github.com/tbxark/medassist/command"
	"github.com/tbxark/medassist/config"
	"github.com/tbxark/medassist/notify"
)

type runOptions struct {
	Encounter   string
	LLMCommands bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session over the clinical context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := newStore(root.cfg)
			if err != nil {
				return &exitError{Code: exitCommandError, Message: "load clinical context", Err: err}
			}
			notices := notify.NewChannel(0)
			sink := notify.Multi{notify.Log{Logger: slog.Default()}, notices}
			machine, err := newMachine(ctx, root, store, sink)
			if err != nil {
				return err
			}

			var parser command.Parser = command.NewLocalParser()
			if opts.LLMCommands {
				if root.cfg.Provider.Backend != config.BackendOpenAI {
					return &exitError{Code: exitCommandError, Message: "--llm-commands requires the openai backend"}
				}
				cm, err := newChatModel(ctx, root.cfg.OpenAI)
				if err != nil {
					return &exitError{Code: exitCommandError, Message: "configure command parser", Err: err}
				}
				toolParser, err := command.NewToolParser(cm)
				if err != nil {
					return err
				}
				parser = command.NewFallbackParser(parser, toolParser)
			}

			flow, err := agent.NewActionFlow(machine, store, parser, agent.WithWaitTimeout(root.cfg.Provider.Timeout))
			if err != nil {
				return err
			}
			medAgent := agent.NewAgent(
				"MedAssist",
				"An agent that runs clinical AI actions over the current encounter",
				flow,
			)
			runner := adk.NewRunner(ctx, adk.RunnerConfig{
				Agent: medAgent,
			})

			chatCtx := ctx
			if opts.Encounter != "" {
				chatCtx = clinical.WithEncounterKey(ctx, opts.Encounter)
			}
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			defer drainNotices(errOut, notices)
			fmt.Fprintln(out, "MedAssist ready. Type \"help\" for commands.")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				drainNotices(errOut, notices)
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				iter := runner.Run(chatCtx, []adk.Message{schema.UserMessage(input)})
				exit := false
				for {
					event, ok := iter.Next()
					if !ok {
						break
					}
					if event.Err != nil {
						return event.Err
					}
					if event.Output != nil && event.Output.MessageOutput != nil {
						msg, mErr := event.Output.MessageOutput.GetMessage()
						if mErr != nil {
							return mErr
						}
						fmt.Fprintf(out, "\n%s\n\n", msg.Content)
					}
					if event.Action != nil && event.Action.Exit {
						exit = true
					}
				}
				if exit {
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVar(&opts.Encounter, "encounter", "", "encounter key for the clinical store")
	cmd.Flags().BoolVar(&opts.LLMCommands, "llm-commands", false, "classify unrecognised input with the chat model")
	return cmd
}

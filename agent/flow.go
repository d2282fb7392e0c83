package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/clinical"
	"github.com/tbxark/medassist/command"
	"github.com/tbxark/medassist/gate"
	"github.com/tbxark/medassist/lifecycle"
	"gopkg.in/yaml.v3"
)

const defaultWaitTimeout = 2 * time.Minute

const helpMessage = `Available commands:
- coding, advisory, suggestions, claims, ehr: run an AI action on the current clinical data
- show: show the current result, or the clinical data when no result is open
- set <field> <value>: update an editable field, e.g. "set chiefComplaint chest pain"
- close: dismiss the current result
- quit: leave the session`

type Request struct {
	UserInput string `json:"user_input"`
}

type Response struct {
	Message string          `json:"message,omitempty"`
	State   lifecycle.State `json:"state"`
	Quit    bool            `json:"quit,omitempty"`
}

// ActionFlow turns one line of physician input into a command against the
// clinical store and the lifecycle machine.
type ActionFlow struct {
	machine     *lifecycle.Machine
	store       *clinical.Store
	parser      command.Parser
	waitTimeout time.Duration
}

type FlowOption func(*ActionFlow)

// WithWaitTimeout bounds how long a dispatch is awaited before the flow
// replies. The action keeps running after the timeout.
func WithWaitTimeout(d time.Duration) FlowOption {
	return func(f *ActionFlow) {
		f.waitTimeout = d
	}
}

func NewActionFlow(machine *lifecycle.Machine, store *clinical.Store, parser command.Parser, opts ...FlowOption) (*ActionFlow, error) {
	if machine == nil {
		return nil, errors.New("lifecycle machine is required")
	}
	if store == nil {
		return nil, errors.New("clinical store is required")
	}
	if parser == nil {
		parser = command.NewLocalParser()
	}
	f := &ActionFlow{
		machine:     machine,
		store:       store,
		parser:      parser,
		waitTimeout: defaultWaitTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

func (f *ActionFlow) Invoke(ctx context.Context, input *Request) (*Response, error) {
	slog.Debug("Parsing command", "input", input.UserInput)
	cmd, err := f.parser.ParseCommand(ctx, input.UserInput)
	if err != nil && !errors.Is(err, command.ErrNoMatch) {
		return f.handleError(fmt.Errorf("failed to parse command: %w", err))
	}
	slog.Debug("Parsed command", "command", cmd)

	switch cmd.Verb {
	case command.Dispatch:
		return f.dispatch(ctx, cmd.Kind)
	case command.Close:
		f.machine.Close()
		return f.reply("Result closed."), nil
	case command.Show:
		return f.show(ctx)
	case command.Set:
		return f.set(ctx, cmd.Path, cmd.Value)
	case command.Help:
		return f.reply(helpMessage), nil
	case command.Quit:
		resp := f.reply("Session ended.")
		resp.Quit = true
		return resp, nil
	}
	return f.reply("Sorry, I did not understand that. Type \"help\" to see what I can do."), nil
}

func (f *ActionFlow) dispatch(ctx context.Context, kind action.Kind) (*Response, error) {
	ticket, err := f.machine.Dispatch(ctx, kind)
	if err != nil {
		var verr *gate.ValidationError
		switch {
		case errors.As(err, &verr):
			return f.reply(verr.Message()), nil
		case errors.Is(err, lifecycle.ErrBusy):
			return f.reply("Another action is still running. Wait for it or close it first."), nil
		}
		return f.handleError(fmt.Errorf("failed to dispatch %s: %w", kind, err))
	}

	waitCtx := ctx
	if f.waitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, f.waitTimeout)
		defer cancel()
	}
	outcome, err := ticket.Wait(waitCtx)
	switch outcome {
	case lifecycle.OutcomeResolved:
		return f.reply(RenderState(f.machine.State())), nil
	case lifecycle.OutcomeRejected:
		return f.reply(fmt.Sprintf("%s failed. Please try again.", kind.DisplayName())), nil
	case lifecycle.OutcomeStale:
		return f.reply(fmt.Sprintf("%s result was discarded.", kind.DisplayName())), nil
	}
	slog.Debug("Stopped waiting for action", "kind", kind, "error", err)
	return f.reply(fmt.Sprintf("%s is still running. Type \"show\" to check on it.", kind.DisplayName())), nil
}

func (f *ActionFlow) show(ctx context.Context) (*Response, error) {
	state := f.machine.State()
	if state.Open() {
		return f.reply(RenderState(state)), nil
	}
	current, err := f.store.Snapshot(ctx)
	if err != nil {
		return f.handleError(err)
	}
	out, err := yaml.Marshal(current)
	if err != nil {
		return f.handleError(fmt.Errorf("failed to render clinical context: %w", err))
	}
	return f.reply(strings.TrimRight(string(out), "\n")), nil
}

func (f *ActionFlow) set(ctx context.Context, path, value string) (*Response, error) {
	edit := clinical.Edit{Op: clinical.OpReplace, Path: path, Value: value}
	if strings.TrimSpace(value) == "" {
		edit = clinical.Edit{Op: clinical.OpRemove, Path: path}
	}
	if _, err := f.store.Apply(ctx, []clinical.Edit{edit}); err != nil {
		return f.reply(fmt.Sprintf("Could not update %s: %v", path, err)), nil
	}
	slog.Debug("Applied clinical edit", "path", path)
	return f.reply(fmt.Sprintf("Updated %s.", path)), nil
}

func (f *ActionFlow) reply(message string) *Response {
	return &Response{
		Message: message,
		State:   f.machine.State(),
	}
}

func (f *ActionFlow) handleError(err error) (*Response, error) {
	slog.Warn("Action flow error", "error", err)
	return f.reply(fmt.Sprintf("Sorry, something went wrong while handling your input: %s", err.Error())), nil
}

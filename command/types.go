package command

import (
	"context"
	"errors"

	"github.com/tbxark/medassist/action"
)

type Verb string

const (
	Dispatch Verb = "dispatch"
	Close    Verb = "close"
	Show     Verb = "show"
	Set      Verb = "set"
	Help     Verb = "help"
	Quit     Verb = "quit"
	None     Verb = "none"
)

// Command is one parsed line of user input. Kind is set for Dispatch, Path
// and Value for Set.
type Command struct {
	Verb  Verb
	Kind  action.Kind
	Path  string
	Value string
}

var ErrNoMatch = errors.New("no command matched the input")

type Parser interface {
	ParseCommand(ctx context.Context, input string) (Command, error)
}

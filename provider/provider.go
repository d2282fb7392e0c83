package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/normalize"
)

var ErrNoProvider = errors.New("no provider configured for action")

// Invoker performs the single asynchronous-capable call for one dispatch.
type Invoker interface {
	Invoke(ctx context.Context, req action.Request) (action.Result, error)
}

// Provider is the external capability behind one action kind.
type Provider[P, R any] interface {
	Call(ctx context.Context, payload P) (*R, error)
}

type Func[P, R any] func(ctx context.Context, payload P) (*R, error)

func (f Func[P, R]) Call(ctx context.Context, payload P) (*R, error) {
	return f(ctx, payload)
}

// Failure wraps any error raised while a provider handled a request.
type Failure struct {
	Kind action.Kind
	Err  error
}

func (e *Failure) Error() string {
	return fmt.Sprintf("%s provider failed: %v", e.Kind, e.Err)
}

func (e *Failure) Unwrap() error {
	return e.Err
}

// UnexpectedShapeError carries a provider reply that was a JSON object but
// did not match the typed result for its kind. The router shows Result in
// place of the typed result.
type UnexpectedShapeError struct {
	Result action.RawResult
	Err    error
}

func (e *UnexpectedShapeError) Error() string {
	return fmt.Sprintf("unexpected %s result shape: %v", e.Result.Action, e.Err)
}

func (e *UnexpectedShapeError) Unwrap() error {
	return e.Err
}

// decodeLoose keeps a reply whose typed decode failed when it is still a
// JSON object. Otherwise it returns err unchanged.
func decodeLoose(kind action.Kind, raw string, err error) error {
	result, derr := normalize.Decode(kind, []byte(raw))
	if derr != nil {
		return err
	}
	return &UnexpectedShapeError{Result: result, Err: err}
}

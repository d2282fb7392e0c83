package lifecycle

import (
	"context"

	"github.com/tbxark/medassist/action"
)

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeResolved
	OutcomeRejected
	// OutcomeStale means the result arrived after its dispatch stopped being
	// the active one and was discarded.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeRejected:
		return "rejected"
	case OutcomeStale:
		return "stale"
	}
	return "pending"
}

// Ticket tracks one dispatch until its provider call returns.
type Ticket struct {
	ID         string
	Kind       action.Kind
	Generation uint64

	done    chan struct{}
	outcome Outcome
	err     error
}

func newTicket(id string, kind action.Kind, generation uint64) *Ticket {
	return &Ticket{
		ID:         id,
		Kind:       kind,
		Generation: generation,
		done:       make(chan struct{}),
	}
}

func (t *Ticket) finish(outcome Outcome, err error) {
	t.outcome = outcome
	t.err = err
	close(t.done)
}

func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Outcome is OutcomePending until Done is closed.
func (t *Ticket) Outcome() Outcome {
	select {
	case <-t.done:
		return t.outcome
	default:
		return OutcomePending
	}
}

// Err is the provider error, if any, once Done is closed.
func (t *Ticket) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the ticket finishes or ctx is done.
func (t *Ticket) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-t.done:
		return t.outcome, t.err
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

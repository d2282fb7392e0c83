// Package lifecycle coordinates a single in-flight AI action from dispatch to
// its settled result surface.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/gate"
	"github.com/tbxark/medassist/normalize"
	"github.com/tbxark/medassist/notify"
	"github.com/tbxark/medassist/provider"
	"github.com/tbxark/medassist/types"
)

var ErrBusy = errors.New("an action is already in progress")

// ContextSource supplies the clinical context at dispatch time.
type ContextSource interface {
	Snapshot(ctx context.Context) (types.ClinicalContext, error)
}

type Option func(*Machine)

func WithNotifier(sink notify.Sink) Option {
	return func(m *Machine) {
		m.notifier = sink
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(m *Machine) {
		m.newID = gen
	}
}

type Machine struct {
	source   ContextSource
	invoker  provider.Invoker
	notifier notify.Sink
	logger   *slog.Logger
	newID    func() string

	mu        sync.Mutex
	state     State
	rev       uint64
	observers map[int]func(State)
	nextObs   int

	pubMu     sync.Mutex
	published uint64
}

func New(source ContextSource, invoker provider.Invoker, opts ...Option) *Machine {
	m := &Machine{
		source:    source,
		invoker:   invoker,
		state:     State{Phase: PhaseIdle},
		observers: map[int]func(State){},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.notifier == nil {
		m.notifier = notify.Discard
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	return m
}

func (m *Machine) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}

// Dispatch validates the current context, builds the payload for kind and
// starts the provider call. The returned ticket finishes when the call
// returns, whether or not its result was applied.
func (m *Machine) Dispatch(ctx context.Context, kind action.Kind) (*Ticket, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", action.ErrUnknownKind, kind)
	}
	m.mu.Lock()
	if m.state.Busy() {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	current, err := m.source.Snapshot(ctx)
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to read clinical context: %w", err)
	}
	if err := gate.Check(current); err != nil {
		m.mu.Unlock()
		m.notifyValidation(kind, err)
		return nil, err
	}
	req, err := action.Build(kind, current)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	generation := m.state.Generation + 1
	ticket := newTicket(m.newID(), kind, generation)
	begin(&m.state, kind, generation, ticket.ID)
	rev, snapshot, observers := m.snapshotLocked()
	m.mu.Unlock()

	m.log().Info("Dispatching action", "kind", kind, "dispatch_id", ticket.ID, "generation", generation)
	m.publish(rev, snapshot, observers)

	go m.run(ctx, ticket, req)
	return ticket, nil
}

func (m *Machine) run(ctx context.Context, ticket *Ticket, req action.Request) {
	var (
		result action.Result
		err    error
	)
	func() {
		defer func() {
			if e := recover(); e != nil {
				err = fmt.Errorf("recover from panic: %v", e)
			}
		}()
		result, err = m.invoker.Invoke(ctx, req)
	}()
	if err == nil && result == nil {
		err = errors.New("provider returned no result")
	}
	if err != nil {
		m.settle(ticket, nil, err)
		return
	}
	m.settle(ticket, normalize.Sections(result), nil)
}

func (m *Machine) settle(ticket *Ticket, sections []types.Section, err error) {
	m.mu.Lock()
	if m.state.Generation != ticket.Generation || !m.state.Busy() {
		m.mu.Unlock()
		m.log().Debug("Discarding stale result", "kind", ticket.Kind, "dispatch_id", ticket.ID, "error", err)
		ticket.finish(OutcomeStale, err)
		return
	}
	if err != nil {
		reject(&m.state)
	} else {
		resolve(&m.state, sections)
	}
	rev, snapshot, observers := m.snapshotLocked()
	m.mu.Unlock()

	if err != nil {
		m.log().Warn("Action failed", "kind", ticket.Kind, "dispatch_id", ticket.ID, "error", err)
		m.notifier.Notify(types.Notification{
			Level:   types.NotificationFailure,
			Kind:    string(ticket.Kind),
			Message: fmt.Sprintf("%s failed. Please try again.", ticket.Kind.DisplayName()),
		})
	} else {
		m.log().Info("Action settled", "kind", ticket.Kind, "dispatch_id", ticket.ID, "sections", len(sections))
	}
	m.publish(rev, snapshot, observers)

	if err != nil {
		ticket.finish(OutcomeRejected, err)
		return
	}
	ticket.finish(OutcomeResolved, nil)
}

// Close hides the result surface. An in-flight call keeps running but its
// result is discarded.
func (m *Machine) Close() {
	m.mu.Lock()
	wasOpen := m.state.Open()
	closeSurface(&m.state)
	rev, snapshot, observers := m.snapshotLocked()
	m.mu.Unlock()
	if wasOpen {
		m.log().Debug("Result surface closed", "kind", snapshot.Kind)
	}
	m.publish(rev, snapshot, observers)
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe registers fn for every state transition. Calls happen outside
// the machine lock, one at a time and in transition order. A snapshot that
// was overtaken by a later transition is never delivered. fn may read State
// but must not call Dispatch or Close.
func (m *Machine) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

func (m *Machine) snapshotLocked() (uint64, State, []func(State)) {
	m.rev++
	observers := make([]func(State), 0, len(m.observers))
	for i := 0; i < m.nextObs; i++ {
		if fn, ok := m.observers[i]; ok {
			observers = append(observers, fn)
		}
	}
	return m.rev, m.state.clone(), observers
}

func (m *Machine) publish(rev uint64, s State, observers []func(State)) {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()
	if rev <= m.published {
		return
	}
	m.published = rev
	for _, fn := range observers {
		fn(s.clone())
	}
}

func (m *Machine) notifyValidation(kind action.Kind, err error) {
	msg := err.Error()
	var verr *gate.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message()
	}
	m.log().Info("Dispatch blocked by validation", "kind", kind, "error", err)
	m.notifier.Notify(types.Notification{
		Level:   types.NotificationValidation,
		Kind:    string(kind),
		Message: msg,
	})
}

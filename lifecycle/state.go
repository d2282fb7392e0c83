package lifecycle

import (
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/types"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseAwaiting Phase = "awaiting"
	PhaseSettled  Phase = "settled"
)

// State is what the result surface renders. Sections stay empty while
// awaiting and after a rejection.
type State struct {
	Phase      Phase           `json:"phase"`
	Kind       action.Kind     `json:"kind,omitempty"`
	Title      string          `json:"title,omitempty"`
	Sections   []types.Section `json:"sections,omitempty"`
	Errored    bool            `json:"errored"`
	Generation uint64          `json:"generation"`
	DispatchID string          `json:"dispatchId,omitempty"`
}

// Open reports whether the result surface is shown.
func (s State) Open() bool {
	return s.Phase == PhaseAwaiting || s.Phase == PhaseSettled
}

// Busy reports whether an action is in flight.
func (s State) Busy() bool {
	return s.Phase == PhaseAwaiting
}

func (s State) clone() State {
	if s.Sections != nil {
		s.Sections = append([]types.Section(nil), s.Sections...)
	}
	return s
}

func begin(s *State, kind action.Kind, generation uint64, id string) {
	*s = State{
		Phase:      PhaseAwaiting,
		Kind:       kind,
		Title:      kind.DisplayName(),
		Generation: generation,
		DispatchID: id,
	}
}

func resolve(s *State, sections []types.Section) {
	s.Phase = PhaseSettled
	s.Sections = sections
	s.Errored = false
}

// reject closes the surface instead of showing the error inside it.
func reject(s *State) {
	s.Phase = PhaseIdle
	s.Sections = nil
	s.Errored = true
}

func closeSurface(s *State) {
	s.Phase = PhaseIdle
	s.Sections = nil
}

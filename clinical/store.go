package clinical

import (
	"context"
	"fmt"
	"sync"

	"github.com/tbxark/medassist/types"
)

type encounterKeyContext struct{}

const (
	defaultEncounterKey = "default"
	storeNamespace      = "clinical:context"
)

// WithEncounterKey routes store reads and writes to one encounter.
func WithEncounterKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, encounterKeyContext{}, key)
}

// EncounterKeyFromContext gets the routing key from the context.
func EncounterKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(encounterKeyContext{}).(string)
	return key, ok
}

func encounterKey(ctx context.Context) string {
	key, ok := EncounterKeyFromContext(ctx)
	if !ok || key == "" {
		key = defaultEncounterKey
	}
	return storeNamespace + ":" + key
}

// Store holds the current clinical context per encounter. It is owned by the
// form layer; the action pipeline only reads snapshots from it.
type Store struct {
	core Cache[types.ClinicalContext]
	init func(ctx context.Context) types.ClinicalContext

	// serializes read-modify-write in Apply
	mu sync.Mutex
}

type StoreOption func(*Store)

// WithInitial overrides the context returned for encounters that were never written.
func WithInitial(init func(ctx context.Context) types.ClinicalContext) StoreOption {
	return func(s *Store) {
		s.init = init
	}
}

func NewStore(core Cache[types.ClinicalContext], opts ...StoreOption) *Store {
	s := &Store{
		core: core,
		init: func(context.Context) types.ClinicalContext { return Demo() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewMemoryStore(opts ...StoreOption) *Store {
	return NewStore(NewMemoryCache[types.ClinicalContext](), opts...)
}

// Snapshot returns a copy of the encounter's context.
func (s *Store) Snapshot(ctx context.Context) (types.ClinicalContext, error) {
	c, ok, err := s.core.Get(ctx, encounterKey(ctx))
	if err != nil {
		return types.ClinicalContext{}, fmt.Errorf("failed to read clinical context: %w", err)
	}
	if !ok {
		return s.init(ctx), nil
	}
	return c, nil
}

func (s *Store) Write(ctx context.Context, c types.ClinicalContext) error {
	if err := s.core.Set(ctx, encounterKey(ctx), c); err != nil {
		return fmt.Errorf("failed to write clinical context: %w", err)
	}
	return nil
}

// Apply applies form edits to the encounter's context and stores the result.
func (s *Store) Apply(ctx context.Context, edits []Edit) (types.ClinicalContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.Snapshot(ctx)
	if err != nil {
		return types.ClinicalContext{}, err
	}
	next, err := ApplyEdits(current, edits)
	if err != nil {
		return current, err
	}
	if err := s.Write(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

func (s *Store) Reset(ctx context.Context) error {
	if err := s.core.Del(ctx, encounterKey(ctx)); err != nil {
		return fmt.Errorf("failed to reset clinical context: %w", err)
	}
	return nil
}

package store

import (
	"slices"
	"strings"
	"sync"

	"github.com/eventnexus/eventnexus/pkg/event"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// PlaceholderPrefix marks ids assigned locally before the backend has
// produced one.
const PlaceholderPrefix = "tmp-"

// State is an immutable view of the store. Events is a copy owned by the
// caller.
type State struct {
	Events    []event.Event
	Loading   bool
	Loaded    bool
	LoadError error
}

type Action interface {
	apply(State) State
}

// LoadStarted marks the start of a fetch; events already held stay visible.
type LoadStarted struct{}

type LoadSucceeded struct {
	Events []event.Event
}

type LoadFailed struct {
	Err error
}

// EventCreated prepends one event; the rest of the list is left as is.
type EventCreated struct {
	Event event.Event
}

func (LoadStarted) apply(s State) State {
	s.Loading = true
	s.LoadError = nil
	return s
}

func (a LoadSucceeded) apply(s State) State {
	s.Events = slices.Clone(a.Events)
	if s.Events == nil {
		s.Events = []event.Event{}
	}
	s.Loading = false
	s.Loaded = true
	s.LoadError = nil
	return s
}

func (a LoadFailed) apply(s State) State {
	s.Loading = false
	s.LoadError = a.Err
	return s
}

func (a EventCreated) apply(s State) State {
	created := a.Event
	if created.Id == "" {
		created.Id = PlaceholderId()
	}
	s.Events = append([]event.Event{created}, s.Events...)
	return s
}

func PlaceholderId() string {
	return PlaceholderPrefix + uuid.NewString()
}

func IsPlaceholder(id string) bool {
	return strings.HasPrefix(id, PlaceholderPrefix)
}

// Store holds the events shown by the UI. It is safe for concurrent use;
// readers get snapshots and writers go through Dispatch.
type Store struct {
	mu    sync.RWMutex
	state State
}

func New() *Store {
	return &Store{state: State{Events: []event.Event{}}}
}

func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = action.apply(s.state)
	log.Tracef("store: %T applied, %d events", action, len(s.state.Events))
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.state
	snapshot.Events = slices.Clone(s.state.Events)
	return snapshot
}

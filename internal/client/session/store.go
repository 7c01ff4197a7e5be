// Package session owns the current identity for the lifetime of the process
// and resolves it once at startup.
package session

import (
	"sync"

	"github.com/wombguard/wombguard-cli/internal/client/models"
)

// State is the resolution state of a Store.
type State int

const (
	Unresolved State = iota
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "UNRESOLVED"
	case Resolving:
		return "RESOLVING"
	case Resolved:
		return "RESOLVED"
	default:
		return "UNKNOWN"
	}
}

// Store holds at most one current identity. Readers get copies; writers
// replace the identity wholesale. Loading is true until the startup
// resolution finishes and never becomes true again.
type Store struct {
	mu       sync.RWMutex
	identity *models.Identity
	state    State
	ready    chan struct{}
}

func NewStore() *Store {
	return &Store{ready: make(chan struct{})}
}

// Current returns a copy of the current identity, or nil.
func (s *Store) Current() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// SignedIn reports whether an identity is current.
func (s *Store) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

func (s *Store) Set(identity *models.Identity) {
	c := identity.Clone()
	s.mu.Lock()
	s.identity = c
	s.mu.Unlock()
}

// Clear drops the current identity. It reports whether there was one.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.identity != nil
	s.identity = nil
	return had
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading is true while the identity is still unknown. A nil Current during
// loading does not mean signed out.
func (s *Store) Loading() bool {
	return s.State() != Resolved
}

// Ready is closed once resolution has finished.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// begin moves Unresolved to Resolving. It fails if resolution already
// started.
func (s *Store) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Unresolved {
		return false
	}
	s.state = Resolving
	return true
}

// finish records the resolved identity, unless a login already set one
// while resolution was running, and closes Ready.
func (s *Store) finish(identity *models.Identity) {
	s.mu.Lock()
	if s.identity == nil {
		s.identity = identity.Clone()
	}
	s.state = Resolved
	s.mu.Unlock()
	close(s.ready)
}

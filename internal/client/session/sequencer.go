package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/logging"
)

var ErrAlreadyResolved = errors.New("identity resolution already ran")

// Strategy is one source of the startup identity. A nil identity with a nil
// error means "nothing here, ask the next one".
type Strategy interface {
	Name() string
	Resolve(ctx context.Context) (*models.Identity, error)
}

// CredentialLoader is the persisted-credential side of resolution.
type CredentialLoader interface {
	Load(ctx context.Context) *models.Credential
}

// IdentityResolver is the remote side of resolution.
type IdentityResolver interface {
	Resolve(ctx context.Context) *models.Identity
}

// PersistedStrategy takes the identity saved by a previous login.
type PersistedStrategy struct {
	Credentials CredentialLoader
}

func (PersistedStrategy) Name() string { return "persisted" }

func (p PersistedStrategy) Resolve(ctx context.Context) (*models.Identity, error) {
	c := p.Credentials.Load(ctx)
	if c == nil {
		return nil, nil
	}
	return c.Identity, nil
}

// RemoteStrategy asks the managed auth provider.
type RemoteStrategy struct {
	Resolver IdentityResolver
}

func (RemoteStrategy) Name() string { return "remote" }

func (r RemoteStrategy) Resolve(ctx context.Context) (*models.Identity, error) {
	return r.Resolver.Resolve(ctx), nil
}

// DefaultStrategies is the resolution policy: a persisted credential always
// wins over a remote session, and the remote side is not consulted at all
// when one exists.
func DefaultStrategies(creds CredentialLoader, resolver IdentityResolver) []Strategy {
	return []Strategy{
		PersistedStrategy{Credentials: creds},
		RemoteStrategy{Resolver: resolver},
	}
}

// Sequencer runs the strategies in order, once, and publishes the first
// identity found to the Store.
type Sequencer struct {
	store      *Store
	strategies []Strategy
	log        logging.Logger
}

func NewSequencer(store *Store, log logging.Logger, strategies ...Strategy) *Sequencer {
	return &Sequencer{store: store, strategies: strategies, log: log.With("component", "sequencer")}
}

// Run resolves the startup identity. Strategies run one after another and
// the first non-nil identity wins. A strategy that fails or panics ends the
// run with no identity. The Store reaches Resolved whatever happens; the
// returned identity is what was published.
func (s *Sequencer) Run(ctx context.Context) (*models.Identity, error) {
	if !s.store.begin() {
		return nil, ErrAlreadyResolved
	}

	var resolved *models.Identity
	source := "none"
	defer func() {
		s.store.finish(resolved)
		s.log.Info(ctx, "identity resolved", "source", source, "signed_in", resolved != nil)
	}()

	for _, st := range s.strategies {
		id, err := s.try(ctx, st)
		if err != nil {
			s.log.Warn(ctx, "identity resolution failed", "strategy", st.Name(), "error", err)
			return nil, nil
		}
		if id != nil {
			resolved, source = id, st.Name()
			return resolved.Clone(), nil
		}
	}
	return nil, nil
}

func (s *Sequencer) try(ctx context.Context, st Strategy) (id *models.Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			id, err = nil, fmt.Errorf("strategy %s panicked: %v", st.Name(), r)
		}
	}()
	return st.Resolve(ctx)
}

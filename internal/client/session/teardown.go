package session

import (
	"context"

	"github.com/wombguard/wombguard-cli/internal/logging"
)

// CredentialClearer removes the persisted credential and the legacy token
// key. Clearing an empty store must succeed.
type CredentialClearer interface {
	Clear(ctx context.Context) error
}

// Navigator sends the user back to the login entry point.
type Navigator interface {
	ToLogin(ctx context.Context)
}

type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

// Teardown ends the session after the backend rejected the credential. It
// is idempotent: on an already empty session it clears nothing and only
// navigates again.
type Teardown struct {
	creds CredentialClearer
	store *Store
	nav   Navigator
	log   logging.Logger
}

func NewTeardown(creds CredentialClearer, store *Store, nav Navigator, log logging.Logger) *Teardown {
	return &Teardown{creds: creds, store: store, nav: nav, log: log.With("component", "teardown")}
}

// Run has the shape of a gateway unauthorized handler.
func (t *Teardown) Run(ctx context.Context) {
	if err := t.creds.Clear(ctx); err != nil {
		t.log.Error(ctx, "clearing persisted credential failed", "error", err)
	}
	had := t.store.Clear()
	if had {
		t.log.Info(ctx, "session ended by backend")
	}
	if t.nav != nil {
		t.nav.ToLogin(ctx)
	}
}

// Package remote resolves an identity from the managed auth provider's
// session and the matching profile record.
//
// It is only consulted when nothing is persisted locally. Every lookup fails
// closed: provider or database errors are logged and read as "signed out".
package remote

import (
	"context"
	"errors"

	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/logging"
)

// SessionProvider is the managed auth provider. CurrentSession returns
// (nil, nil) when signed out.
type SessionProvider interface {
	CurrentSession(ctx context.Context) (*models.RemoteSession, error)
	SignOut(ctx context.Context) error
}

// SessionAdopter stores a provider session token obtained out of band.
type SessionAdopter interface {
	Adopt(ctx context.Context, token string) error
}

// ProfileSource looks a profile record up by subject id. A missing record
// is (nil, nil).
type ProfileSource interface {
	FetchProfile(ctx context.Context, subjectID string) (map[string]any, error)
}

type Resolver struct {
	sessions SessionProvider
	profiles ProfileSource
	log      logging.Logger
}

// NewResolver accepts nil collaborators; a missing provider or profile
// source resolves nobody.
func NewResolver(sessions SessionProvider, profiles ProfileSource, log logging.Logger) *Resolver {
	return &Resolver{sessions: sessions, profiles: profiles, log: log.With("component", "remote")}
}

// CurrentSession returns the active provider session or nil.
func (r *Resolver) CurrentSession(ctx context.Context) *models.RemoteSession {
	if r.sessions == nil {
		return nil
	}
	s, err := r.sessions.CurrentSession(ctx)
	if err != nil {
		r.log.Warn(ctx, "remote session lookup failed", "error", err)
		return nil
	}
	if s == nil || s.SubjectID == "" {
		return nil
	}
	return s
}

// FetchProfile returns the profile record of subjectID or nil.
func (r *Resolver) FetchProfile(ctx context.Context, subjectID string) map[string]any {
	if r.profiles == nil {
		return nil
	}
	p, err := r.profiles.FetchProfile(ctx, subjectID)
	if err != nil {
		r.log.Warn(ctx, "profile lookup failed", "subject", subjectID, "error", err)
		return nil
	}
	return p
}

// Resolve synthesizes an identity when both the session and its profile
// exist, and returns nil otherwise.
func (r *Resolver) Resolve(ctx context.Context) *models.Identity {
	s := r.CurrentSession(ctx)
	if s == nil {
		return nil
	}
	p := r.FetchProfile(ctx, s.SubjectID)
	if p == nil {
		r.log.Info(ctx, "remote session has no profile record", "subject", s.SubjectID)
		return nil
	}
	return models.FromRemote(s, p)
}

// SignOut revokes the provider session.
func (r *Resolver) SignOut(ctx context.Context) error {
	if r.sessions == nil {
		return nil
	}
	return r.sessions.SignOut(ctx)
}

// ErrAdoptUnsupported is returned by Adopt when the provider cannot take a
// session token.
var ErrAdoptUnsupported = errors.New("auth provider does not accept session tokens")

// Adopt hands a provider session token to the provider, when it supports
// that.
func (r *Resolver) Adopt(ctx context.Context, token string) error {
	a, ok := r.sessions.(SessionAdopter)
	if !ok {
		return ErrAdoptUnsupported
	}
	return a.Adopt(ctx, token)
}

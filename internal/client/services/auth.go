// Package services contains the application services of the WombGuard CLI.
// This file defines the authentication service: login, two-phase
// registration, logout, adoption of a provider session and status.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wombguard/wombguard-cli/internal/client/client"
	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/session"
	"github.com/wombguard/wombguard-cli/internal/common"
	"github.com/wombguard/wombguard-cli/internal/logging"
	"github.com/wombguard/wombguard-cli/internal/validatex"
)

var (
	ErrNoRegistrationData = errors.New("registration failed: no user data returned")
	ErrNoRemoteProfile    = errors.New("provider session has no matching profile")
)

// CredentialStore is the persisted-credential side the services write to.
type CredentialStore interface {
	Save(ctx context.Context, identity *models.Identity, token string) error
	Token(ctx context.Context) string
	Clear(ctx context.Context) error
}

// RemoteAuth is the managed auth provider as the services see it.
type RemoteAuth interface {
	Resolve(ctx context.Context) *models.Identity
	SignOut(ctx context.Context) error
	Adopt(ctx context.Context, token string) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: on success the credential is persisted, then the identity is
//     current, then Login returns. On failure nothing changes.
//   - Register: creates a pending account and never signs anyone in.
//   - VerifyEmail: consumes a verification token.
//   - Logout: best-effort revoke at the provider, then unconditional local
//     teardown.
//   - AdoptSession: signs in with a provider session token.
//   - Status: the current identity and what the bearer token claims.
//   - Ping: backend liveness.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Identity, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) (*models.VerifyEmailResponse, error)
	Logout(ctx context.Context) error
	AdoptSession(ctx context.Context, token string) (*models.Identity, error)
	Status(ctx context.Context) *Status
	Ping(ctx context.Context) (*models.HealthStatus, error)
}

type authService struct {
	client   client.Client
	creds    CredentialStore
	store    *session.Store
	remote   RemoteAuth
	validate *validatex.Validator
	log      logging.Logger
}

// NewAuthService wires the service. remote may be nil when no auth provider
// is configured.
func NewAuthService(c client.Client, creds CredentialStore, store *session.Store, remote RemoteAuth, log logging.Logger) AuthService {
	return &authService{
		client:   c,
		creds:    creds,
		store:    store,
		remote:   remote,
		validate: validatex.New(),
		log:      log.With("component", "auth"),
	}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := a.validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := a.client.Login(ctx, req)
	if err != nil {
		return nil, client.NewRequestError(err, "login failed")
	}
	if len(resp.User) == 0 {
		return nil, client.NewRequestError(client.ErrNoUserData, "login failed")
	}
	identity, err := models.IdentityFromMap(resp.User)
	if err != nil {
		return nil, client.NewRequestError(fmt.Errorf("%w: %v", client.ErrNoUserData, err), "login failed")
	}

	if err := a.creds.Save(ctx, identity, resp.AccessToken); err != nil {
		return nil, &client.RequestError{Message: "login failed: could not save the session locally", Err: err}
	}
	a.store.Set(identity)

	a.log.Info(ctx, "signed in", "user", identity.ID, "role", identity.Role, "token", resp.AccessToken != "")
	return identity.Clone(), nil
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Role == "" {
		req.Role = models.RolePatient
	}
	if err := a.validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := a.client.Register(ctx, req)
	if err != nil {
		return nil, client.NewRequestError(err, "registration failed")
	}
	if len(resp.User) == 0 {
		return nil, &client.RequestError{Message: ErrNoRegistrationData.Error(), Err: ErrNoRegistrationData}
	}
	return resp, nil
}

func (a *authService) VerifyEmail(ctx context.Context, token string) (*models.VerifyEmailResponse, error) {
	req := models.VerifyEmailRequest{Token: strings.TrimSpace(token)}
	if err := a.validate.Struct(req); err != nil {
		return nil, err
	}
	resp, err := a.client.VerifyEmail(ctx, req.Token)
	if err != nil {
		return nil, client.NewRequestError(err, "email verification failed")
	}
	return resp, nil
}

// Logout never fails because of the provider. The returned error only
// reports a local store that could not be cleared; the in-memory identity is
// gone either way.
func (a *authService) Logout(ctx context.Context) error {
	if a.remote != nil {
		if err := a.remote.SignOut(ctx); err != nil {
			a.log.Warn(ctx, "remote sign-out failed", "error", err)
		}
	}
	a.store.Clear()
	if err := a.creds.Clear(ctx); err != nil {
		a.log.Error(ctx, "clearing persisted credential failed", "error", err)
		return fmt.Errorf("logout: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

// AdoptSession stores a provider session token and resolves the identity
// behind it. Provider sessions are not persisted as credentials; they are
// looked up again on every start.
func (a *authService) AdoptSession(ctx context.Context, token string) (*models.Identity, error) {
	if a.remote == nil {
		return nil, errors.New("no auth provider configured")
	}
	if err := a.remote.Adopt(ctx, strings.TrimSpace(token)); err != nil {
		return nil, fmt.Errorf("adopt session: %w", err)
	}
	identity := a.remote.Resolve(ctx)
	if identity == nil {
		return nil, ErrNoRemoteProfile
	}
	a.store.Set(identity)
	return identity.Clone(), nil
}

func (a *authService) Ping(ctx context.Context) (*models.HealthStatus, error) {
	return a.client.Health(ctx)
}

// Status describes the current session.
type Status struct {
	Identity *models.Identity
	HasToken bool
	Claims   *TokenClaims
}

// TokenClaims are the claims of the backend bearer token. They are decoded
// without verification and are for display only.
type TokenClaims struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry in the past.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c != nil && !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

func (a *authService) Status(ctx context.Context) *Status {
	st := &Status{Identity: a.store.Current()}
	tok := a.creds.Token(ctx)
	if tok == "" {
		return st
	}
	st.HasToken = true
	claims, err := decodeClaims(tok)
	if err != nil {
		a.log.Debug(ctx, "bearer token is not a readable JWT", "error", err)
		return st
	}
	st.Claims = claims
	return st
}

func decodeClaims(tok string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	out := &TokenClaims{}
	if v, ok := claims["user_id"]; ok {
		out.UserID = fmt.Sprint(v)
	} else if sub, err := claims.GetSubject(); err == nil {
		out.UserID = sub
	}
	out.Email, _ = claims["email"].(string)
	out.Role, _ = claims["role"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Package credstore persists the current identity and its optional bearer
// token in the local key/value store.
//
// The token key is never written without the identity key. Load and Token do
// not return errors: anything unreadable is logged and reported as absent, and
// a corrupted identity is deleted on the spot so that later loads do not see
// it again.
package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/repositories/metadata"
	"github.com/wombguard/wombguard-cli/internal/common"
	"github.com/wombguard/wombguard-cli/internal/cryptox"
	"github.com/wombguard/wombguard-cli/internal/logging"
)

var ErrNoIdentity = errors.New("no identity to save")

type Store struct {
	repo   metadata.Repository
	sealer cryptox.Sealer
	log    logging.Logger
}

func New(repo metadata.Repository, sealer cryptox.Sealer, log logging.Logger) *Store {
	if sealer == nil {
		sealer = cryptox.NopSealer{}
	}
	return &Store{repo: repo, sealer: sealer, log: log.With("component", "credstore")}
}

// Save writes identity and, when non-empty, token in a single batch. Without
// a token any previously stored token is removed in the same batch.
func (s *Store) Save(ctx context.Context, identity *models.Identity, token string) error {
	if identity == nil {
		return ErrNoIdentity
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	ops := []metadata.Op{metadata.Put(common.IdentityKey, data)}
	if token != "" {
		sealed, err := s.sealer.Seal([]byte(token))
		if err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
		ops = append(ops, metadata.Put(common.TokenKey, sealed))
	} else {
		ops = append(ops, metadata.Del(common.TokenKey))
	}

	if err := s.repo.Apply(ctx, ops...); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Load returns the persisted credential or nil.
func (s *Store) Load(ctx context.Context) *models.Credential {
	raw, err := s.repo.Get(ctx, common.IdentityKey)
	if err != nil {
		s.log.Warn(ctx, "reading persisted identity failed", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var identity models.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		s.log.Warn(ctx, "discarding corrupted persisted identity", "error", err)
		// the token is meaningless without its identity
		if err := s.repo.Apply(ctx, metadata.Del(common.IdentityKey), metadata.Del(common.TokenKey)); err != nil {
			s.log.Error(ctx, "cleanup of corrupted identity failed", "error", err)
		}
		return nil
	}

	return &models.Credential{Identity: &identity, Token: s.Token(ctx)}
}

// Token returns the stored bearer token or "" when there is none or it
// cannot be read back.
func (s *Store) Token(ctx context.Context) string {
	raw, err := s.repo.Get(ctx, common.TokenKey)
	if err != nil {
		s.log.Warn(ctx, "reading bearer token failed", "error", err)
		return ""
	}
	if len(raw) == 0 {
		return ""
	}
	plain, err := s.sealer.Open(raw)
	if err != nil {
		s.log.Warn(ctx, "stored bearer token cannot be opened", "error", err)
		return ""
	}
	return string(plain)
}

// Clear removes the identity, the token and the legacy token key. Clearing
// an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	err := s.repo.Apply(ctx,
		metadata.Del(common.IdentityKey),
		metadata.Del(common.TokenKey),
		metadata.Del(common.LegacyTokenKey),
	)
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

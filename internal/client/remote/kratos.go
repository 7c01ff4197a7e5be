package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	kratos "github.com/ory/kratos-client-go"

	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/repositories/metadata"
	"github.com/wombguard/wombguard-cli/internal/common"
)

// KratosProvider asks Ory Kratos about the native-app session whose token is
// kept under common.ProviderSessionKey.
type KratosProvider struct {
	api  *kratos.APIClient
	repo metadata.Repository
}

func NewKratosProvider(publicURL string, timeout time.Duration, repo metadata.Repository) *KratosProvider {
	cfg := kratos.NewConfiguration()
	cfg.Servers = []kratos.ServerConfiguration{{URL: publicURL}}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	cfg.DefaultHeader = map[string]string{"Accept": "application/json"}
	return &KratosProvider{api: kratos.NewAPIClient(cfg), repo: repo}
}

func (p *KratosProvider) token(ctx context.Context) (string, error) {
	raw, err := p.repo.Get(ctx, common.ProviderSessionKey)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (p *KratosProvider) CurrentSession(ctx context.Context) (*models.RemoteSession, error) {
	tok, err := p.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read provider session: %w", err)
	}
	if tok == "" {
		return nil, nil
	}

	session, resp, err := p.api.FrontendAPI.ToSession(ctx).XSessionToken(tok).Execute()
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, nil
		}
		if resp != nil {
			return nil, fmt.Errorf("kratos returned status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to call kratos: %w", err)
	}

	if session.Active != nil && !*session.Active {
		return nil, nil
	}
	if session.Identity == nil {
		return nil, fmt.Errorf("kratos session %s has no identity", session.Id)
	}

	email := ""
	if traits, ok := session.Identity.Traits.(map[string]any); ok {
		email, _ = traits["email"].(string)
	}
	return &models.RemoteSession{
		SubjectID: session.Identity.Id,
		Email:     email,
		SessionID: session.Id,
	}, nil
}

// SignOut revokes the session at Kratos and forgets the local token even
// when the revoke fails.
func (p *KratosProvider) SignOut(ctx context.Context) error {
	tok, err := p.token(ctx)
	if err != nil {
		return fmt.Errorf("read provider session: %w", err)
	}
	if tok == "" {
		return nil
	}

	resp, revokeErr := p.api.FrontendAPI.PerformNativeLogout(ctx).
		PerformNativeLogoutBody(*kratos.NewPerformNativeLogoutBody(tok)).
		Execute()
	if resp != nil {
		_ = resp.Body.Close()
	}

	if err := p.repo.Delete(ctx, common.ProviderSessionKey); err != nil {
		return fmt.Errorf("forget provider session: %w", err)
	}
	if revokeErr != nil {
		return fmt.Errorf("revoke kratos session: %w", revokeErr)
	}
	return nil
}

func (p *KratosProvider) Adopt(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("empty session token")
	}
	return p.repo.Set(ctx, common.ProviderSessionKey, []byte(token))
}

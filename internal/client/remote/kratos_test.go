package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/repositories/metadata"
	"github.com/wombguard/wombguard-cli/internal/common"
)

const sessionJSON = `{
  "id": "sess-1",
  "active": true,
  "identity": {
    "id": "u1",
    "schema_id": "default",
    "schema_url": "http://kratos/schemas/default",
    "traits": {"email": "a@x.com"}
  }
}`

type kratosStub struct {
	status       int
	body         string
	gotToken     string
	logoutBody   map[string]any
	logoutStatus int
}

func newKratos(t *testing.T, stub *kratosStub) (*KratosProvider, *metadata.MemoryRepository) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sessions/whoami":
			stub.gotToken = r.Header.Get("X-Session-Token")
			w.WriteHeader(stub.status)
			_, _ = w.Write([]byte(stub.body))
		case r.Method == http.MethodDelete && r.URL.Path == "/self-service/logout/api":
			_ = json.NewDecoder(r.Body).Decode(&stub.logoutBody)
			w.WriteHeader(stub.logoutStatus)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	repo := metadata.NewMemoryRepository()
	return NewKratosProvider(srv.URL, time.Second, repo), repo
}

func TestKratos_NoTokenIsSignedOutWithoutCalling(t *testing.T) {
	stub := &kratosStub{status: http.StatusOK, body: sessionJSON}
	p, _ := newKratos(t, stub)

	s, err := p.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Empty(t, stub.gotToken)
}

func TestKratos_ActiveSession(t *testing.T) {
	stub := &kratosStub{status: http.StatusOK, body: sessionJSON}
	p, _ := newKratos(t, stub)
	ctx := context.Background()
	require.NoError(t, p.Adopt(ctx, "st-1"))

	s, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.RemoteSession{SubjectID: "u1", Email: "a@x.com", SessionID: "sess-1"}, s)
	assert.Equal(t, "st-1", stub.gotToken)
}

func TestKratos_UnauthorizedIsSignedOut(t *testing.T) {
	stub := &kratosStub{status: http.StatusUnauthorized, body: `{"error":{"code":401,"status":"Unauthorized","message":"No valid session"}}`}
	p, _ := newKratos(t, stub)
	ctx := context.Background()
	require.NoError(t, p.Adopt(ctx, "expired"))

	s, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestKratos_ServerErrorIsReported(t *testing.T) {
	stub := &kratosStub{status: http.StatusInternalServerError, body: `{"error":{"code":500,"message":"boom"}}`}
	p, _ := newKratos(t, stub)
	ctx := context.Background()
	require.NoError(t, p.Adopt(ctx, "st-1"))

	_, err := p.CurrentSession(ctx)
	require.ErrorContains(t, err, "kratos returned status 500")
}

func TestKratos_SignOut(t *testing.T) {
	stub := &kratosStub{logoutStatus: http.StatusNoContent}
	p, repo := newKratos(t, stub)
	ctx := context.Background()

	require.NoError(t, p.SignOut(ctx), "signing out without a session is a no-op")
	assert.Nil(t, stub.logoutBody)

	require.NoError(t, p.Adopt(ctx, "st-1"))
	require.NoError(t, p.SignOut(ctx))
	assert.Equal(t, "st-1", stub.logoutBody["session_token"])
	assert.NotContains(t, repo.Snapshot(), common.ProviderSessionKey)
}

func TestKratos_SignOutForgetsTokenEvenWhenRevokeFails(t *testing.T) {
	stub := &kratosStub{logoutStatus: http.StatusInternalServerError}
	p, repo := newKratos(t, stub)
	ctx := context.Background()
	require.NoError(t, p.Adopt(ctx, "st-1"))

	err := p.SignOut(ctx)
	require.ErrorContains(t, err, "revoke kratos session")
	assert.NotContains(t, repo.Snapshot(), common.ProviderSessionKey)
}

func TestKratos_AdoptRejectsEmpty(t *testing.T) {
	p, _ := newKratos(t, &kratosStub{})
	require.Error(t, p.Adopt(context.Background(), ""))
}

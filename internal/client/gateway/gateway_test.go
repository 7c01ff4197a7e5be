package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wombguard/wombguard-cli/internal/common"
)

type captured struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]any
}

func recorder(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	var last captured
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		last = captured{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Header: r.Header.Clone()}
		if r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&last.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func staticToken(tok string) TokenSource {
	return TokenFunc(func(context.Context) string { return tok })
}

func TestDo_PostSetsHeadersAndDecodes(t *testing.T) {
	srv, last := recorder(t, http.StatusOK, `{"status":"success","email":"a@x.com"}`)
	g, err := New(srv.URL+"/", staticToken("tok"))
	require.NoError(t, err)

	var out struct {
		Status string `json:"status"`
		Email  string `json:"email"`
	}
	err = g.Post(context.Background(), "/verify-email", nil, map[string]string{"token": "abc"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "a@x.com", out.Email)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/verify-email", last.Path)
	assert.Equal(t, "Bearer tok", last.Header.Get("Authorization"))
	assert.Equal(t, "application/json", last.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", last.Header.Get("Accept"))
	assert.Equal(t, map[string]any{"token": "abc"}, last.Body)
	_, err = uuid.Parse(last.Header.Get(common.RequestIDHeaderName))
	assert.NoError(t, err)
}

func TestDo_GetWithoutTokenIsUnauthenticated(t *testing.T) {
	srv, last := recorder(t, http.StatusOK, `{}`)
	g, err := New(srv.URL, nil)
	require.NoError(t, err)

	err = g.Get(context.Background(), "/dashboard", url.Values{"role": {"pregnant_woman"}, "user_email": {"a@x.com"}}, nil)
	require.NoError(t, err)

	assert.Empty(t, last.Header.Get("Authorization"))
	assert.Empty(t, last.Header.Get("Content-Type"))
	assert.Equal(t, "pregnant_woman", last.Query.Get("role"))
	assert.Equal(t, "a@x.com", last.Query.Get("user_email"))
}

func TestDo_TokenIsReadAtDispatch(t *testing.T) {
	srv, last := recorder(t, http.StatusOK, `{}`)
	var tok atomic.Value
	tok.Store("first")
	g, err := New(srv.URL, TokenFunc(func(context.Context) string { return tok.Load().(string) }))
	require.NoError(t, err)

	require.NoError(t, g.Get(context.Background(), "/health", nil, nil))
	assert.Equal(t, "Bearer first", last.Header.Get("Authorization"))

	tok.Store("second")
	require.NoError(t, g.Get(context.Background(), "/health", nil, nil))
	assert.Equal(t, "Bearer second", last.Header.Get("Authorization"))
}

func TestDo_EmptySuccessBody(t *testing.T) {
	srv, _ := recorder(t, http.StatusNoContent, ``)
	g, err := New(srv.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, g.Post(context.Background(), "/x", nil, nil, &out))
	assert.Nil(t, out)
}

func TestDo_UndecodableBody(t *testing.T) {
	srv, _ := recorder(t, http.StatusOK, `<html>`)
	g, err := New(srv.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	err = g.Get(context.Background(), "/health", nil, &out)
	require.ErrorContains(t, err, "decode GET /health response")
}

func TestDo_401RunsTeardownBeforeReturning(t *testing.T) {
	srv, _ := recorder(t, http.StatusUnauthorized, `{"detail":"Incorrect password"}`)
	var torn atomic.Int32
	g, err := New(srv.URL, staticToken("stale"), WithUnauthorizedHandler(func(context.Context) { torn.Add(1) }))
	require.NoError(t, err)

	err = g.Post(context.Background(), "/login", nil, map[string]string{"email": "a@x.com"}, nil)

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), torn.Load(), "teardown must have run when Do returns")
	assert.Equal(t, "Incorrect password", DetailOf(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "POST /login: 401 Unauthorized: Incorrect password", apiErr.Error())
}

func TestDo_SequentialUnauthorizedRunsTeardownEachTime(t *testing.T) {
	srv, _ := recorder(t, http.StatusUnauthorized, `{"detail":"Token expired"}`)
	var torn atomic.Int32
	g, err := New(srv.URL, staticToken("stale"), WithUnauthorizedHandler(func(context.Context) { torn.Add(1) }))
	require.NoError(t, err)

	for range 3 {
		require.ErrorIs(t, g.Get(context.Background(), "/dashboard", nil, nil), ErrUnauthorized)
	}
	assert.Equal(t, int32(3), torn.Load())
}

func TestDo_OtherStatusesPropagateWithoutTeardown(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		detail   string
		notFound bool
	}{
		{"forbidden", http.StatusForbidden, `{"detail":"Email not verified."}`, "Email not verified.", false},
		{"not found", http.StatusNotFound, `{"detail":"User not found"}`, "User not found", true},
		{"validation list", http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","email"],"msg":"field required"},{"loc":["query","user_email"],"msg":"field required"}]}`,
			"email: field required; user_email: field required", false},
		{"no detail", http.StatusInternalServerError, `oops`, "", false},
		{"message field", http.StatusBadRequest, `{"message":"bad"}`, "bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := recorder(t, tt.status, tt.body)
			called := false
			g, err := New(srv.URL, staticToken("tok"), WithUnauthorizedHandler(func(context.Context) { called = true }))
			require.NoError(t, err)

			err = g.Get(context.Background(), "/user-profile", nil, nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.NotErrorIs(t, err, ErrUnauthorized)
			assert.Equal(t, tt.notFound, errors.Is(err, common.ErrNotFound))
			assert.False(t, called)
		})
	}
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	g, err := New(base, nil, WithTimeout(time.Second))
	require.NoError(t, err)

	err = g.Get(context.Background(), "/health", nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_CanceledContext(t *testing.T) {
	srv, _ := recorder(t, http.StatusOK, `{}`)
	g, err := New(srv.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = g.Get(ctx, "/health", nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestDo_ConcurrentUnauthorizedTearsDownOnce(t *testing.T) {
	srv, _ := recorder(t, http.StatusUnauthorized, `{"detail":"expired"}`)

	// session stands in for the persisted credential: only the first clear
	// finds something to delete
	var mu sync.Mutex
	session := true
	var effective, calls atomic.Int32
	handler := func(context.Context) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		if session {
			session = false
			effective.Add(1)
		}
	}

	g, err := New(srv.URL, staticToken("tok"), WithUnauthorizedHandler(handler))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.Get(context.Background(), "/dashboard", nil, nil)
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, session, "every caller observes the teardown")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, int32(1), effective.Load())
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.LessOrEqual(t, calls.Load(), int32(3))
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("localhost:8000", nil)
	require.Error(t, err)

	_, err = New("://bad", nil)
	require.Error(t, err)

	g, err := New("https://api.example.org/v1/", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org/v1", g.BaseURL())
}

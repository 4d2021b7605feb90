package sessionsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceToken = "svc-token"

// fakeService mimics the session service closely enough to exercise the
// client: it rotates pairs and rejects reuse.
type fakeService struct {
	mu       sync.Mutex
	counter  int
	live     map[string]string // refresh -> access
	expired  map[string]bool   // access tokens the server treats as lapsed
	identity map[string]Identity

	// onMe runs before /v1/me answers, outside the lock.
	onMe func(token string)
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	fs := &fakeService{
		live:     map[string]string{},
		expired:  map[string]bool{},
		identity: map[string]Identity{},
	}

	mux := http.NewServeMux()
	service := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+serviceToken {
				ErrInvalidToken.WriteError(w)
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("POST /v1/sessions", service(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("user_id") == "404" {
			ErrUserNotFound.WriteError(w)
			return
		}
		writeJSON(w, http.StatusCreated, fs.mint())
	}))
	mux.HandleFunc("POST /v1/sessions/refresh", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		fs.mu.Lock()
		access, ok := fs.live[r.Form.Get("refresh_token")]
		if ok && access == r.Form.Get("access_token") {
			delete(fs.live, r.Form.Get("refresh_token"))
		}
		fs.mu.Unlock()
		if !ok || access != r.Form.Get("access_token") {
			ErrSessionInvalid.WriteError(w)
			return
		}
		writeJSON(w, http.StatusOK, fs.mint())
	})
	mux.HandleFunc("POST /v1/sessions/revoke", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		fs.mu.Lock()
		delete(fs.live, r.Form.Get("refresh_token"))
		fs.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("POST /v1/users/{id}/sessions/revoke", service(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		n := int64(len(fs.live))
		fs.live = map[string]string{}
		fs.mu.Unlock()
		writeJSON(w, http.StatusOK, RevokeAllResponse{UserID: 42, Revoked: n})
	}))
	mux.HandleFunc("POST /v1/sessions/purge", service(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, PurgeResponse{Deleted: 3})
	}))
	mux.HandleFunc("PUT /v1/users/{id}", service(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in Identity
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		fs.mu.Lock()
		fs.identity[r.PathValue("id")] = in
		fs.mu.Unlock()
		writeJSON(w, http.StatusOK, SyncIdentityResponse{UserID: 42, Revoked: 1})
	}))
	mux.HandleFunc("GET /v1/me", func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")[len("Bearer "):]
		fs.mu.Lock()
		lapsed := fs.expired[token]
		onMe := fs.onMe
		fs.mu.Unlock()
		if onMe != nil {
			onMe(token)
		}
		if lapsed {
			ErrInvalidToken.WriteError(w)
			return
		}
		writeJSON(w, http.StatusOK, MeResponse{UserID: 42, Username: "raider", Role: "member"})
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: "test"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
	})
	mux.HandleFunc("GET /.well-known/jwks.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"keys":[{"kty":"OKP","crv":"Ed25519","kid":"k1","use":"sig","alg":"EdDSA","x":"abc"}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeService) mint() SessionResponse {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.counter++
	access := "access-" + string(rune('a'+fs.counter))
	refresh := "refresh-" + string(rune('a'+fs.counter))
	fs.live[refresh] = access
	return SessionResponse{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        "Bearer",
		ExpiresIn:        3600,
		RefreshExpiresIn: 7 * 24 * 3600,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeService(t)
	client := NewSDKClient(srv.URL + "/")
	platform := client.WithServiceToken(serviceToken)

	_, err := client.IssueSession(ctx, 42)
	require.Error(t, err, "issuing needs the service token")

	pair, err := platform.IssueSession(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, 3600, pair.ExpiresIn)

	next, err := client.RefreshSession(ctx, pair.AccessToken, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = client.RefreshSession(ctx, pair.AccessToken, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionInvalid)
	var oerr *OAuth2Error
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, http.StatusUnauthorized, oerr.StatusCode)
	require.Equal(t, ErrorCodeInvalidGrant, oerr.Code)

	require.NoError(t, client.RevokeSession(ctx, next.RefreshToken))
	require.NoError(t, client.RevokeSession(ctx, "never-issued"))

	_, err = client.RefreshSession(ctx, next.AccessToken, next.RefreshToken)
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestClient_ServiceOperations(t *testing.T) {
	ctx := context.Background()
	fs, srv := newFakeService(t)
	platform := NewSDKClient(srv.URL).WithServiceToken(serviceToken)

	_, err := platform.IssueSession(ctx, 404)
	require.ErrorIs(t, err, ErrUserNotFound)

	for range 2 {
		_, err := platform.IssueSession(ctx, 42)
		require.NoError(t, err)
	}

	all, err := platform.RevokeAllSessions(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, int64(2), all.Revoked)

	purged, err := platform.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), purged.Deleted)

	synced, err := platform.SyncIdentity(ctx, 42, Identity{Username: "raider", Role: "moderator", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), synced.Revoked)
	require.Equal(t, "moderator", fs.identity["42"].Role)

	_, err = NewSDKClient(srv.URL).WithServiceToken("wrong").PurgeExpired(ctx)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestClient_HealthAndJWKS(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeService(t)
	client := NewSDKClient(srv.URL)

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	_, err = client.GetReadiness(ctx)
	var oerr *OAuth2Error
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, http.StatusServiceUnavailable, oerr.StatusCode)

	jwks, err := client.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "k1", jwks.Keys[0].Kid)
}

func TestSession_RefreshesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeService(t)
	client := NewSDKClient(srv.URL)

	session, err := client.WithServiceToken(serviceToken).OpenSession(ctx, 42)
	require.NoError(t, err)

	now := time.Now()
	session.now = func() time.Time { return now }
	first, _ := session.Tokens()

	token, err := session.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, first, token, "no rotation while valid")

	now = now.Add(2 * time.Hour)
	token, err = session.AccessToken(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first, token)
	require.True(t, session.ExpiresAt().After(now))
}

func TestSession_MeRetriesOnLapsedToken(t *testing.T) {
	ctx := context.Background()
	fs, srv := newFakeService(t)
	client := NewSDKClient(srv.URL)

	session, err := client.WithServiceToken(serviceToken).OpenSession(ctx, 42)
	require.NoError(t, err)

	access, _ := session.Tokens()
	fs.mu.Lock()
	fs.expired[access] = true
	fs.mu.Unlock()

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "raider", me.Username)

	rotated, _ := session.Tokens()
	require.NotEqual(t, access, rotated)
}

func TestSession_MeReusesPairRotatedByAnotherCaller(t *testing.T) {
	ctx := context.Background()
	fs, srv := newFakeService(t)
	client := NewSDKClient(srv.URL)

	session, err := client.WithServiceToken(serviceToken).OpenSession(ctx, 42)
	require.NoError(t, err)

	lapsed, _ := session.Tokens()
	fs.mu.Lock()
	fs.expired[lapsed] = true
	fs.onMe = func(token string) {
		// Another goroutine rotates while this call is in flight.
		if token == lapsed {
			assert.NoError(t, session.Refresh(ctx))
		}
	}
	fs.mu.Unlock()

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "raider", me.Username)

	fs.mu.Lock()
	minted := fs.counter
	fs.mu.Unlock()
	require.Equal(t, 2, minted, "only the open and the concurrent rotation mint pairs")

	current, _ := session.Tokens()
	require.NotEqual(t, lapsed, current)
}

func TestSession_Revoke(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeService(t)
	client := NewSDKClient(srv.URL)

	session, err := client.WithServiceToken(serviceToken).OpenSession(ctx, 42)
	require.NoError(t, err)

	require.NoError(t, session.Revoke(ctx))
	require.Error(t, session.Revoke(ctx))

	_, err = session.AccessToken(ctx)
	require.Error(t, err)
}

func TestParseErrorResponse_Fallback(t *testing.T) {
	err := parseErrorResponse(&http.Response{StatusCode: http.StatusBadGateway}, []byte("<html>"))
	var oerr *OAuth2Error
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, ErrorCodeServerError, oerr.Code)
	require.Contains(t, oerr.Description, "502")

	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}

package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Abhishek40905/ancome-backend/internal/config"
	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/testutil"
	"github.com/Abhishek40905/ancome-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func init() {
	utils.SetJWTSecret("services-test-secret")
}

// fakeGitHub serves the token and user endpoints of the GitHub OAuth flow.
func fakeGitHub(t *testing.T, login string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_test", "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gho_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 583231, "login": login, "name": "The Octocat", "avatar_url": "https://avatars.example/octocat",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newAuthService(t *testing.T, login string) (*AuthService, *StateCodec) {
	t.Helper()
	srv := fakeGitHub(t, login)
	idp := NewGitHubOAuth("client-id", "client-secret", "http://localhost:8080/api/auth/callback").
		WithEndpoints(oauth2.Endpoint{
			AuthURL:  srv.URL + "/login/oauth/authorize",
			TokenURL: srv.URL + "/login/oauth/access_token",
		}, srv.URL)
	codec := NewStateCodec(nil, nil)
	s := testutil.NewStore(t)
	return NewAuthService(s, idp, codec, &config.JWTConfig{Secret: "x", ExpireHour: 1}), codec
}

func TestAuthService_BeginLogin(t *testing.T) {
	svc, codec := newAuthService(t, "octocat")

	redirect, cookie, err := svc.BeginLogin()
	require.NoError(t, err)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	state := u.Query().Get("state")
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.NoError(t, codec.Verify(cookie, state))
}

func TestAuthService_CompleteLogin(t *testing.T) {
	svc, codec := newAuthService(t, "octocat")
	ctx := testutil.Context(t)
	state, cookie, err := codec.Issue()
	require.NoError(t, err)

	result, err := svc.CompleteLogin(ctx, "good-code", state, cookie)
	require.NoError(t, err)
	assert.Equal(t, "octocat", result.User.ExternalID)
	assert.Equal(t, "The Octocat", result.User.DisplayName)
	assert.Equal(t, models.GlobalRoleUser, result.User.GlobalRole)

	claims, err := utils.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)

	// second login resolves to the same user
	again, err := svc.CompleteLogin(ctx, "good-code", state, cookie)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, again.User.ID)

	verify := svc.Verify(ctx, result.Token)
	assert.True(t, verify.Login)
	assert.False(t, verify.IsSuperAdmin)
	assert.Equal(t, result.User.ID, verify.UserID)
}

func TestAuthService_CompleteLoginFailures(t *testing.T) {
	svc, codec := newAuthService(t, "octocat")
	ctx := testutil.Context(t)
	state, cookie, err := codec.Issue()
	require.NoError(t, err)

	_, err = svc.CompleteLogin(ctx, "good-code", "other-state", cookie)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.CompleteLogin(ctx, "bad-code", state, cookie)
	assert.Error(t, err)

	_, err = svc.CompleteLogin(ctx, "", state, cookie)
	assertValidation(t, err, "code")
}

func TestAuthService_Verify(t *testing.T) {
	svc, _ := newAuthService(t, "octocat")
	ctx := testutil.Context(t)

	assert.Equal(t, VerifyResult{Message: "no token present"}, svc.Verify(ctx, ""))
	assert.False(t, svc.Verify(ctx, "not-a-jwt").Login)

	orphan, err := utils.GenerateToken("deleted-user", "ghost", 1)
	require.NoError(t, err)
	res := svc.Verify(ctx, orphan)
	assert.False(t, res.Login)
	assert.Equal(t, "user not found", res.Message)
}

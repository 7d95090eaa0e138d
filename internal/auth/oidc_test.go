package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/lms-portal/internal/config"
)

const (
	testClientID = "lms-portal"
	testCode     = "auth-code-1"
)

// fakeIssuer is an OIDC provider with discovery, JWKS and a token endpoint
// that enforces the PKCE verifier against the challenge from the login redirect.
type fakeIssuer struct {
	srv       *httptest.Server
	key       *rsa.PrivateKey
	token     string
	challenge string
}

func newFakeIssuer(t *testing.T) *fakeIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	fi := &fakeIssuer{key: key}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, map[string]any{
			"issuer":                                fi.srv.URL,
			"authorization_endpoint":                fi.srv.URL + "/authorize",
			"token_endpoint":                        fi.srv.URL + "/token",
			"jwks_uri":                              fi.srv.URL + "/jwks",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
			Key: &key.PublicKey, KeyID: "test-key", Algorithm: string(jose.RS256), Use: "sig",
		}}})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != testCode {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		sum := sha256.Sum256([]byte(r.PostForm.Get("code_verifier")))
		if base64.RawURLEncoding.EncodeToString(sum[:]) != fi.challenge {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		writeTestJSON(w, map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     fi.token,
		})
	})
	fi.srv = httptest.NewServer(mux)
	t.Cleanup(fi.srv.Close)
	fi.token = fi.idToken(t)
	return fi
}

func (fi *fakeIssuer) idToken(t *testing.T) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{
		Algorithm: jose.RS256,
		Key:       jose.JSONWebKey{Key: fi.key, KeyID: "test-key"},
	}, (&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)

	now := time.Now()
	payload, err := json.Marshal(map[string]any{
		"iss":   fi.srv.URL,
		"sub":   "student-42",
		"aud":   testClientID,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"email": "ada@example.com",
		"name":  "Ada Lovelace",
	})
	require.NoError(t, err)
	obj, err := signer.Sign(payload)
	require.NoError(t, err)
	raw, err := obj.CompactSerialize()
	require.NoError(t, err)
	return raw
}

func writeTestJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newOIDCProvider(t *testing.T, fi *fakeIssuer) *Provider {
	t.Helper()
	cfg := &config.Config{}
	cfg.OIDC.Issuer = fi.srv.URL
	cfg.OIDC.ClientID = testClientID
	cfg.OIDC.ClientSecret = "secret"
	cfg.OIDC.RedirectURL = "http://example.com/auth/callback"
	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// startLogin runs /auth/login and returns the pre-auth cookies and state.
func startLogin(t *testing.T, h http.Handler, fi *fakeIssuer) ([]*http.Cookie, string) {
	t.Helper()
	w := do(h, http.MethodGet, "/auth/login?redirect=/dashboard", nil)
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc.String(), fi.srv.URL+"/authorize"), loc.String())
	q := loc.Query()
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, testClientID, q.Get("client_id"))
	fi.challenge = q.Get("code_challenge")

	cookies := w.Result().Cookies()
	state := cookieValue(cookies, cookieState)
	require.NotEmpty(t, state)
	assert.Equal(t, state, q.Get("state"))
	return cookies, state
}

func TestNewProvider_DisabledWithoutIssuer(t *testing.T) {
	p, err := NewProvider(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestOIDCLoginAndCallback(t *testing.T) {
	fi := newFakeIssuer(t)
	h := newAuthRouter(t, newOIDCProvider(t, fi))

	cookies, state := startLogin(t, h, fi)
	w := do(h, http.MethodGet, "/auth/callback?state="+url.QueryEscape(state)+"&code="+testCode, cookies)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	session := w.Result().Cookies()
	assert.NotEmpty(t, cookieValue(session, "session"))
	w = do(h, http.MethodGet, "/dashboard", session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada Lovelace", w.Body.String())
}

func TestOIDCCallback_Rejects(t *testing.T) {
	fi := newFakeIssuer(t)
	h := newAuthRouter(t, newOIDCProvider(t, fi))

	t.Run("state mismatch", func(t *testing.T) {
		cookies, _ := startLogin(t, h, fi)
		w := do(h, http.MethodGet, "/auth/callback?state=forged&code="+testCode, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("missing verifier", func(t *testing.T) {
		cookies, state := startLogin(t, h, fi)
		var kept []*http.Cookie
		for _, c := range cookies {
			if c.Name != cookieCodeVerifier {
				kept = append(kept, c)
			}
		}
		w := do(h, http.MethodGet, "/auth/callback?state="+url.QueryEscape(state)+"&code="+testCode, kept)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("exchange refused", func(t *testing.T) {
		cookies, state := startLogin(t, h, fi)
		w := do(h, http.MethodGet, "/auth/callback?state="+url.QueryEscape(state)+"&code=wrong", cookies)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOIDCCallback_DisabledWithoutProvider(t *testing.T) {
	h := newTestRouter(t)
	w := do(h, http.MethodGet, "/auth/callback?state=x&code=y", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

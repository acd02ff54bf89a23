package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/security/password"
	"github.com/skillrat/authd/internal/store"
	memorystore "github.com/skillrat/authd/internal/store/memory"
)

func clientAuthEnv(t *testing.T) (http.Handler, *string) {
	t.Helper()

	hash, err := password.Hash(password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}, "dev-secret")
	require.NoError(t, err)

	dal := memorystore.New(store.NewSeedClients([]repository.Client{{
		ClientID:   "gateway",
		SecretHash: hash,
		GrantTypes: []string{"urn:ietf:params:oauth:grant-type:skillrat-password"},
		Scopes:     []string{"read", "write"},
	}}))

	var seenClientID string
	h := WithClientAuth(dal)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenClientID = GetClientID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seenClientID
}

func TestClientAuthSuccess(t *testing.T) {
	h, seen := clientAuthEnv(t)

	r := httptest.NewRequest(http.MethodPost, "/oauth/token", nil)
	r.SetBasicAuth("gateway", "dev-secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gateway", *seen)
}

func TestClientAuthRejections(t *testing.T) {
	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing credentials", func(r *http.Request) {}},
		{"wrong secret", func(r *http.Request) { r.SetBasicAuth("gateway", "wrong") }},
		{"unknown client", func(r *http.Request) { r.SetBasicAuth("ghost", "dev-secret") }},
		{"empty client id", func(r *http.Request) { r.SetBasicAuth("", "dev-secret") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, seen := clientAuthEnv(t)

			r := httptest.NewRequest(http.MethodPost, "/oauth/token", nil)
			tc.setup(r)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Empty(t, *seen)
			assert.Equal(t, `Basic realm="authd"`, w.Header().Get("WWW-Authenticate"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "invalid_client", body["error"])
		})
	}
}

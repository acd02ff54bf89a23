package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillrat/authd/internal/tenant"
)

func guardedHandler(t *testing.T, cfg ClaimsGuardConfig) (http.Handler, *bool) {
	t.Helper()
	called := false
	h := WithTenantClaimGuard(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	return h, &called
}

func guardRequest(slug, claims string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if slug != "" {
		r = r.WithContext(tenant.WithSlug(r.Context(), slug))
	}
	if claims != "" {
		r.Header.Set("X-Principal-Claims", claims)
	}
	return r
}

func TestClaimGuardMatchingClaimProceeds(t *testing.T) {
	h, called := guardedHandler(t, ClaimsGuardConfig{})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, guardRequest("acme", `{"tenant_id":"acme","sub":"alice@acme.io"}`))

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClaimGuardMismatchRejects(t *testing.T) {
	h, called := guardedHandler(t, ClaimsGuardConfig{})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, guardRequest("acme", `{"tenant_id":"globex"}`))

	assert.False(t, *called)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tenant mismatch", body["message"])
}

func TestClaimGuardUnparseablePayloadFailsOpen(t *testing.T) {
	h, called := guardedHandler(t, ClaimsGuardConfig{})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, guardRequest("acme", `{not-json`))

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClaimGuardNoClaimsHeaderProceeds(t *testing.T) {
	h, called := guardedHandler(t, ClaimsGuardConfig{})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, guardRequest("acme", ""))

	assert.True(t, *called)
}

func TestClaimGuardNoTenantProceeds(t *testing.T) {
	// Sin tenant resuelto no hay contra qué cruzar, aun con claims presentes.
	h, called := guardedHandler(t, ClaimsGuardConfig{})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, guardRequest("", `{"tenant_id":"globex"}`))

	assert.True(t, *called)
}

func TestClaimGuardMissingOrNonStringClaimProceeds(t *testing.T) {
	cases := []string{
		`{"sub":"alice@acme.io"}`,
		`{"tenant_id":42}`,
		`{"tenant_id":""}`,
	}
	for _, payload := range cases {
		h, called := guardedHandler(t, ClaimsGuardConfig{})
		h.ServeHTTP(httptest.NewRecorder(), guardRequest("acme", payload))
		assert.True(t, *called, "payload=%s", payload)
	}
}

func TestClaimGuardBehindTenantResolution(t *testing.T) {
	// Cadena real: primero se resuelve el tenant, después se cruza el claim.
	called := false
	h := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }),
		WithTenantResolution(HeaderTenantResolver("X-Skillrat-Tenant")),
		WithTenantClaimGuard(ClaimsGuardConfig{}),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Skillrat-Tenant", "acme")
	r.Header.Set("X-Principal-Claims", `{"tenant_id":"globex"}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClaimGuardCustomHeaderAndKey(t *testing.T) {
	h, called := guardedHandler(t, ClaimsGuardConfig{ClaimsHeader: "X-Upstream-Claims", ClaimKey: "org"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(tenant.WithSlug(r.Context(), "acme"))
	r.Header.Set("X-Upstream-Claims", `{"org":"globex"}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.False(t, *called)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

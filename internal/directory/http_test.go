package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPValidatorSuccess(t *testing.T) {
	var gotTenant, gotPath string
	var gotBody verifyRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTenant = r.Header.Get("X-Skillrat-Tenant")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Principal{Email: "alice@acme.io", Roles: []string{"MANAGER"}})
	}))
	defer srv.Close()

	v := NewHTTPValidator(HTTPValidatorConfig{BaseURL: srv.URL})
	p, err := v.Validate(context.Background(), "acme", "alice@acme.io", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "/v1/credentials/verify", gotPath)
	assert.Equal(t, "acme", gotTenant)
	assert.Equal(t, "alice@acme.io", gotBody.Username)
	assert.Equal(t, "s3cret", gotBody.Password)
	assert.Equal(t, "alice@acme.io", p.Email)
	assert.Equal(t, []string{"MANAGER"}, p.Roles)
}

func TestHTTPValidatorRejectedCredentials(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		v := NewHTTPValidator(HTTPValidatorConfig{BaseURL: srv.URL})
		_, err := v.Validate(context.Background(), "acme", "alice@acme.io", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials, "status=%d", status)
		srv.Close()
	}
}

func TestHTTPValidatorUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v := NewHTTPValidator(HTTPValidatorConfig{BaseURL: srv.URL})
	_, err := v.Validate(context.Background(), "acme", "alice@acme.io", "s3cret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestHTTPValidatorTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // servidor caído a propósito

	v := NewHTTPValidator(HTTPValidatorConfig{BaseURL: srv.URL, Timeout: time.Second})
	_, err := v.Validate(context.Background(), "acme", "alice@acme.io", "s3cret")
	assert.Error(t, err)
}

func TestHTTPValidatorCustomTenantHeader(t *testing.T) {
	var gotTenant string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTenant = r.Header.Get("X-Org")
		_ = json.NewEncoder(w).Encode(Principal{Email: "alice@acme.io"})
	}))
	defer srv.Close()

	v := NewHTTPValidator(HTTPValidatorConfig{BaseURL: srv.URL, TenantHeader: "X-Org"})
	_, err := v.Validate(context.Background(), "globex", "alice@acme.io", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "globex", gotTenant)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/store"
)

func newAuthz(id, access string) *repository.Authorization {
	now := time.Now().UTC()
	return &repository.Authorization{
		ID:            id,
		ClientID:      "gateway",
		PrincipalName: "alice@acme.io",
		GrantType:     "urn:ietf:params:oauth:grant-type:skillrat-password",
		Scopes:        []string{"read", "write"},
		Attributes:    map[string]string{"username": "alice@acme.io"},
		AccessToken: repository.AccessToken{
			Value:     access,
			IssuedAt:  now,
			ExpiresAt: now.Add(15 * time.Minute),
			Scopes:    []string{"read", "write"},
			Claims:    map[string]any{"sub": "alice@acme.io"},
		},
	}
}

func TestSaveAndFindByToken(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewSeedClients(nil))

	tda, err := s.ForTenant(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, "acme", tda.Tenant())

	authz := newAuthz("a1", "tok-1")
	require.NoError(t, tda.Authorizations().Save(ctx, authz))

	got, err := tda.Authorizations().FindByToken(ctx, "tok-1", repository.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "gateway", got.ClientID)
	assert.Equal(t, []string{"read", "write"}, got.Scopes)

	_, err = tda.Authorizations().FindByToken(ctx, "nope", repository.TokenTypeAccess)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByRefreshToken(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewSeedClients(nil))
	tda, _ := s.ForTenant(ctx, "acme")

	authz := newAuthz("a1", "tok-1")
	now := time.Now().UTC()
	authz.RefreshToken = &repository.RefreshToken{
		Value:     "ref-1",
		IssuedAt:  now,
		ExpiresAt: now.Add(720 * time.Hour),
	}
	require.NoError(t, tda.Authorizations().Save(ctx, authz))

	got, err := tda.Authorizations().FindByToken(ctx, "ref-1", repository.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	// El valor de refresh no resuelve como access ni al revés.
	_, err = tda.Authorizations().FindByToken(ctx, "ref-1", repository.TokenTypeAccess)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = tda.Authorizations().FindByToken(ctx, "tok-1", repository.TokenTypeRefresh)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpsertReindexesTokens(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewSeedClients(nil))
	tda, _ := s.ForTenant(ctx, "acme")

	first := newAuthz("a1", "tok-old")
	now := time.Now().UTC()
	first.RefreshToken = &repository.RefreshToken{Value: "ref-old", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, tda.Authorizations().Save(ctx, first))

	second := newAuthz("a1", "tok-new")
	second.RefreshToken = &repository.RefreshToken{Value: "ref-new", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, tda.Authorizations().Save(ctx, second))

	_, err := tda.Authorizations().FindByToken(ctx, "tok-old", repository.TokenTypeAccess)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = tda.Authorizations().FindByToken(ctx, "ref-old", repository.TokenTypeRefresh)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := tda.Authorizations().FindByToken(ctx, "tok-new", repository.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "ref-new", got.RefreshToken.Value)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewSeedClients(nil))
	tda, _ := s.ForTenant(ctx, "acme")

	require.NoError(t, tda.Authorizations().Save(ctx, newAuthz("a1", "tok-1")))
	require.NoError(t, tda.Authorizations().Remove(ctx, "a1"))

	_, err := tda.Authorizations().FindByToken(ctx, "tok-1", repository.TokenTypeAccess)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Segunda remoción es un miss.
	assert.ErrorIs(t, tda.Authorizations().Remove(ctx, "a1"), repository.ErrNotFound)
}

func TestTenantPartitionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewSeedClients(nil))

	acme, _ := s.ForTenant(ctx, "acme")
	globex, _ := s.ForTenant(ctx, "globex")

	require.NoError(t, acme.Authorizations().Save(ctx, newAuthz("a1", "tok-1")))

	// El mismo token no existe en la partición del otro tenant.
	_, err := globex.Authorizations().FindByToken(ctx, "tok-1", repository.TokenTypeAccess)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := acme.Authorizations().FindByToken(ctx, "tok-1", repository.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
}

func TestFindReturnsClone(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewSeedClients(nil))
	tda, _ := s.ForTenant(ctx, "acme")

	require.NoError(t, tda.Authorizations().Save(ctx, newAuthz("a1", "tok-1")))

	got, err := tda.Authorizations().FindByToken(ctx, "tok-1", repository.TokenTypeAccess)
	require.NoError(t, err)
	got.Attributes["username"] = "mallory"
	got.AccessToken.Invalidated = true

	again, err := tda.Authorizations().FindByToken(ctx, "tok-1", repository.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice@acme.io", again.Attributes["username"])
	assert.False(t, again.AccessToken.Invalidated)
}

func TestSaveRejectsEmptyID(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewSeedClients(nil))
	tda, _ := s.ForTenant(ctx, "acme")

	assert.ErrorIs(t, tda.Authorizations().Save(ctx, &repository.Authorization{}), repository.ErrConflict)
	assert.ErrorIs(t, tda.Authorizations().Save(ctx, nil), repository.ErrConflict)
}

func TestForTenantEmptySlugFallsToDefault(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewSeedClients(nil))

	tda, err := s.ForTenant(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "default", tda.Tenant())
}

package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillrat/authd/internal/domain/repository"
)

func TestSeedClientsGet(t *testing.T) {
	reg := NewSeedClients([]repository.Client{{
		ClientID:   "gateway",
		Name:       "API Gateway",
		GrantTypes: []string{"urn:ietf:params:oauth:grant-type:skillrat-password"},
		Scopes:     []string{"read", "write"},
	}})

	c, err := reg.Get(context.Background(), "gateway")
	require.NoError(t, err)
	assert.Equal(t, "API Gateway", c.Name)
	assert.True(t, c.AllowsGrant("urn:ietf:params:oauth:grant-type:skillrat-password"))
	assert.False(t, c.AllowsGrant("client_credentials"))

	_, err = reg.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSeedClientsGetReturnsCopy(t *testing.T) {
	reg := NewSeedClients([]repository.Client{{ClientID: "gateway", Scopes: []string{"read"}}})

	c, err := reg.Get(context.Background(), "gateway")
	require.NoError(t, err)
	c.Scopes[0] = "admin"

	again, err := reg.Get(context.Background(), "gateway")
	require.NoError(t, err)
	assert.Equal(t, []string{"read"}, again.Scopes)
}

type countingClients struct {
	inner repository.ClientRepository
	hits  atomic.Int64
}

func (c *countingClients) Get(ctx context.Context, clientID string) (*repository.Client, error) {
	c.hits.Add(1)
	return c.inner.Get(ctx, clientID)
}

func TestCachedClientsHitsBackendOnce(t *testing.T) {
	inner := &countingClients{inner: NewSeedClients([]repository.Client{{ClientID: "gateway"}})}
	cached := NewCachedClients(inner, time.Minute)

	for i := 0; i < 5; i++ {
		c, err := cached.Get(context.Background(), "gateway")
		require.NoError(t, err)
		assert.Equal(t, "gateway", c.ClientID)
	}
	assert.EqualValues(t, 1, inner.hits.Load())
}

func TestCachedClientsDoesNotCacheMisses(t *testing.T) {
	inner := &countingClients{inner: NewSeedClients(nil)}
	cached := NewCachedClients(inner, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := cached.Get(context.Background(), "ghost")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
	assert.EqualValues(t, 3, inner.hits.Load())
}

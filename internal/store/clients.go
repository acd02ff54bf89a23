package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/skillrat/authd/internal/domain/repository"
)

// SeedClients es un ClientRepository inmutable cargado desde configuración.
// Sirve para despliegues single-binary donde el registro de clients no vive
// en una base externa.
type SeedClients struct {
	byID map[string]repository.Client
}

// NewSeedClients indexa los clients sembrados por client_id.
func NewSeedClients(clients []repository.Client) *SeedClients {
	m := make(map[string]repository.Client, len(clients))
	for _, c := range clients {
		m[c.ClientID] = c
	}
	return &SeedClients{byID: m}
}

// Get retorna una copia del client o ErrNotFound.
func (s *SeedClients) Get(_ context.Context, clientID string) (*repository.Client, error) {
	c, ok := s.byID[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := c
	out.GrantTypes = append([]string(nil), c.GrantTypes...)
	out.Scopes = append([]string(nil), c.Scopes...)
	return &out, nil
}

// CachedClients envuelve un ClientRepository con un cache TTL en memoria.
// Evita ir al backend en cada grant; los misses no se cachean.
type CachedClients struct {
	inner repository.ClientRepository
	cache *gocache.Cache
}

// NewCachedClients crea el wrapper con el TTL dado.
func NewCachedClients(inner repository.ClientRepository, ttl time.Duration) *CachedClients {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedClients{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedClients) Get(ctx context.Context, clientID string) (*repository.Client, error) {
	if v, ok := c.cache.Get(clientID); ok {
		if cl, ok := v.(*repository.Client); ok {
			cp := *cl
			return &cp, nil
		}
	}
	cl, err := c.inner.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	cp := *cl
	c.cache.SetDefault(clientID, &cp)
	return cl, nil
}

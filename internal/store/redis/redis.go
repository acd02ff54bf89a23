// Package redis implementa el store particionado por tenant sobre Redis.
// La partición es por prefijo de clave: {prefix}:{tenant}:...
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/store"
	"github.com/skillrat/authd/internal/tenant"
)

// Store comparte un client de Redis entre particiones.
type Store struct {
	c       *rdb.Client
	prefix  string
	clients repository.ClientRepository
}

// New crea el store. El registro de clients no vive en Redis: se inyecta
// (típicamente SeedClients con cache).
func New(addr string, db int, prefix string, clients repository.ClientRepository) *Store {
	if prefix == "" {
		prefix = "authd"
	}
	return &Store{
		c:       rdb.NewClient(&rdb.Options{Addr: addr, DB: db}),
		prefix:  prefix,
		clients: clients,
	}
}

func (s *Store) ForTenant(_ context.Context, slug string) (store.TenantDataAccess, error) {
	if slug == "" {
		slug = tenant.Default
	}
	return &tenantData{slug: slug, s: s}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.c.Ping(ctx).Err()
}

func (s *Store) Close() { _ = s.c.Close() }

type tenantData struct {
	slug string
	s    *Store
}

func (t *tenantData) Tenant() string { return t.slug }

func (t *tenantData) Authorizations() repository.AuthorizationRepository {
	return &authzRepo{c: t.s.c, prefix: t.s.prefix + ":" + t.slug}
}

func (t *tenantData) Clients() repository.ClientRepository { return t.s.clients }

// authzRepo persiste Authorization records como JSON con índices por valor
// de token. El TTL de las claves sigue a la expiración más lejana del
// registro, con margen para que la introspección pueda reportar expirado.
type authzRepo struct {
	c      *rdb.Client
	prefix string
}

const expirySlack = time.Hour

func (r *authzRepo) recordKey(id string) string { return r.prefix + ":authz:" + id }

func (r *authzRepo) tokenKey(tokenType repository.TokenType, value string) string {
	return fmt.Sprintf("%s:tok:%s:%s", r.prefix, tokenType, value)
}

func (r *authzRepo) Save(ctx context.Context, a *repository.Authorization) error {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("redis: marshal authorization: %w", err)
	}

	ttl := time.Until(a.AccessToken.ExpiresAt) + expirySlack
	if a.RefreshToken != nil {
		if rt := time.Until(a.RefreshToken.ExpiresAt) + expirySlack; rt > ttl {
			ttl = rt
		}
	}
	if ttl <= 0 {
		ttl = expirySlack
	}

	// Limpiar índices viejos si los valores de token cambiaron.
	if prev, err := r.get(ctx, a.ID); err == nil {
		r.dropIndexes(ctx, prev)
	}

	pipe := r.c.TxPipeline()
	pipe.Set(ctx, r.recordKey(a.ID), b, ttl)
	if a.AccessToken.Value != "" {
		pipe.Set(ctx, r.tokenKey(repository.TokenTypeAccess, a.AccessToken.Value), a.ID, ttl)
	}
	if a.RefreshToken != nil && a.RefreshToken.Value != "" {
		pipe.Set(ctx, r.tokenKey(repository.TokenTypeRefresh, a.RefreshToken.Value), a.ID, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: save authorization: %w", err)
	}
	return nil
}

func (r *authzRepo) FindByToken(ctx context.Context, value string, tokenType repository.TokenType) (*repository.Authorization, error) {
	if value == "" {
		return nil, repository.ErrNotFound
	}
	id, err := r.c.Get(ctx, r.tokenKey(tokenType, value)).Result()
	if errors.Is(err, rdb.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: lookup token: %w", err)
	}
	return r.get(ctx, id)
}

func (r *authzRepo) Remove(ctx context.Context, id string) error {
	a, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	r.dropIndexes(ctx, a)
	if err := r.c.Del(ctx, r.recordKey(id)).Err(); err != nil {
		return fmt.Errorf("redis: remove authorization: %w", err)
	}
	return nil
}

func (r *authzRepo) get(ctx context.Context, id string) (*repository.Authorization, error) {
	b, err := r.c.Get(ctx, r.recordKey(id)).Bytes()
	if errors.Is(err, rdb.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get authorization: %w", err)
	}
	var a repository.Authorization
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("redis: unmarshal authorization: %w", err)
	}
	return &a, nil
}

func (r *authzRepo) dropIndexes(ctx context.Context, a *repository.Authorization) {
	keys := make([]string, 0, 2)
	if a.AccessToken.Value != "" {
		keys = append(keys, r.tokenKey(repository.TokenTypeAccess, a.AccessToken.Value))
	}
	if a.RefreshToken != nil && a.RefreshToken.Value != "" {
		keys = append(keys, r.tokenKey(repository.TokenTypeRefresh, a.RefreshToken.Value))
	}
	if len(keys) > 0 {
		_ = r.c.Del(ctx, keys...).Err()
	}
}

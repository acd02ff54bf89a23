// Package pg implementa el store particionado por tenant sobre Postgres.
// La partición es lógica: toda query filtra por tenant_id.
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/store"
	"github.com/skillrat/authd/internal/tenant"
)

// Store mantiene el pool de conexiones compartido entre particiones.
type Store struct {
	pool    *pgxpool.Pool
	clients repository.ClientRepository
}

// New abre el pool contra el DSN dado. Los clients se leen de la tabla
// clients con un cache TTL encima.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}
	s := &Store{pool: pool}
	s.clients = store.NewCachedClients(&clientRepo{pool: pool}, time.Minute)
	return s, nil
}

// ForTenant retorna el acceso a datos scoped al tenant.
func (s *Store) ForTenant(_ context.Context, slug string) (store.TenantDataAccess, error) {
	if slug == "" {
		slug = tenant.Default
	}
	return &tenantData{slug: slug, s: s}, nil
}

// Ping verifica el pool (readiness).
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close cierra el pool.
func (s *Store) Close() {
	s.pool.Close()
}

type tenantData struct {
	slug string
	s    *Store
}

func (t *tenantData) Tenant() string { return t.slug }

func (t *tenantData) Authorizations() repository.AuthorizationRepository {
	return &authzRepo{pool: t.s.pool, tenant: t.slug}
}

func (t *tenantData) Clients() repository.ClientRepository { return t.s.clients }

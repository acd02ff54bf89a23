// Package memory implementa el store particionado por tenant en memoria.
// Útil para desarrollo y testing; los registros no sobreviven al proceso.
package memory

import (
	"context"
	"sync"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/store"
	"github.com/skillrat/authd/internal/tenant"
)

// Store enruta a particiones en memoria creadas bajo demanda.
type Store struct {
	mu      sync.Mutex
	parts   map[string]*partition
	clients repository.ClientRepository
}

// New crea el store en memoria. clients es el registro compartido
// (típicamente SeedClients envuelto en CachedClients).
func New(clients repository.ClientRepository) *Store {
	return &Store{
		parts:   make(map[string]*partition),
		clients: clients,
	}
}

// ForTenant retorna el acceso a la partición del tenant, creándola si no existe.
func (s *Store) ForTenant(_ context.Context, slug string) (store.TenantDataAccess, error) {
	if slug == "" {
		slug = tenant.Default
	}
	s.mu.Lock()
	p, ok := s.parts[slug]
	if !ok {
		p = newPartition()
		s.parts[slug] = p
	}
	s.mu.Unlock()
	return &tenantData{slug: slug, part: p, clients: s.clients}, nil
}

// Ping siempre responde ok: no hay backend externo.
func (s *Store) Ping(context.Context) error { return nil }

// Close no hace nada en memoria.
func (s *Store) Close() {}

type tenantData struct {
	slug    string
	part    *partition
	clients repository.ClientRepository
}

func (t *tenantData) Tenant() string                                        { return t.slug }
func (t *tenantData) Authorizations() repository.AuthorizationRepository     { return t.part }
func (t *tenantData) Clients() repository.ClientRepository                   { return t.clients }

// partition es el AuthorizationRepository de un tenant.
// Las tres operaciones son atómicas por registro bajo el mutex de la partición.
type partition struct {
	mu        sync.RWMutex
	byID      map[string]*repository.Authorization
	byAccess  map[string]string // access token value -> authorization id
	byRefresh map[string]string // refresh token value -> authorization id
}

func newPartition() *partition {
	return &partition{
		byID:      make(map[string]*repository.Authorization),
		byAccess:  make(map[string]string),
		byRefresh: make(map[string]string),
	}
}

// Save hace upsert por ID y reindexa los valores de token.
func (p *partition) Save(_ context.Context, authz *repository.Authorization) error {
	if authz == nil || authz.ID == "" {
		return repository.ErrConflict
	}
	cp := clone(authz)

	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.byID[cp.ID]; ok {
		delete(p.byAccess, prev.AccessToken.Value)
		if prev.RefreshToken != nil {
			delete(p.byRefresh, prev.RefreshToken.Value)
		}
	}
	p.byID[cp.ID] = cp
	if cp.AccessToken.Value != "" {
		p.byAccess[cp.AccessToken.Value] = cp.ID
	}
	if cp.RefreshToken != nil && cp.RefreshToken.Value != "" {
		p.byRefresh[cp.RefreshToken.Value] = cp.ID
	}
	return nil
}

// FindByToken busca por valor exacto del tipo de token dado.
func (p *partition) FindByToken(_ context.Context, value string, tokenType repository.TokenType) (*repository.Authorization, error) {
	if value == "" {
		return nil, repository.ErrNotFound
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var id string
	var ok bool
	switch tokenType {
	case repository.TokenTypeAccess:
		id, ok = p.byAccess[value]
	case repository.TokenTypeRefresh:
		id, ok = p.byRefresh[value]
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	authz, ok := p.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(authz), nil
}

// Remove elimina el registro y sus índices.
func (p *partition) Remove(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	authz, ok := p.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(p.byAccess, authz.AccessToken.Value)
	if authz.RefreshToken != nil {
		delete(p.byRefresh, authz.RefreshToken.Value)
	}
	delete(p.byID, id)
	return nil
}

// clone copia en profundidad para que ningún caller retenga una referencia
// mutable al registro almacenado.
func clone(a *repository.Authorization) *repository.Authorization {
	cp := *a
	cp.Scopes = append([]string(nil), a.Scopes...)
	if a.Attributes != nil {
		cp.Attributes = make(map[string]string, len(a.Attributes))
		for k, v := range a.Attributes {
			cp.Attributes[k] = v
		}
	}
	cp.AccessToken.Scopes = append([]string(nil), a.AccessToken.Scopes...)
	if a.AccessToken.Claims != nil {
		cp.AccessToken.Claims = make(map[string]any, len(a.AccessToken.Claims))
		for k, v := range a.AccessToken.Claims {
			cp.AccessToken.Claims[k] = v
		}
	}
	if a.RefreshToken != nil {
		rt := *a.RefreshToken
		cp.RefreshToken = &rt
	}
	return &cp
}

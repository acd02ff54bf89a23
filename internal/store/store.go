// Package store define la capa de acceso a datos particionada por tenant.
//
// Todo acceso a persistencia del core pasa por ForTenant: el tenant del request
// elige la partición lógica y ningún repositorio se usa sin esa indirección.
package store

import (
	"context"

	"github.com/skillrat/authd/internal/domain/repository"
)

// TenantDataAccess expone los repositorios de una partición de tenant.
type TenantDataAccess interface {
	// Tenant retorna el slug de la partición.
	Tenant() string

	// Authorizations retorna el store de Authorization records del tenant.
	Authorizations() repository.AuthorizationRepository

	// Clients retorna el registro de clients (solo lectura).
	Clients() repository.ClientRepository
}

// DataAccessLayer enruta operaciones de datos a la partición del tenant.
type DataAccessLayer interface {
	// ForTenant retorna el acceso a datos de la partición dada.
	// slug vacío cae a la partición default.
	ForTenant(ctx context.Context, slug string) (TenantDataAccess, error)

	// Ping verifica que el backend esté accesible (readiness).
	Ping(ctx context.Context) error

	// Close libera conexiones.
	Close()
}

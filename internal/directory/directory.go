// Package directory delega la verificación de credenciales al servicio
// externo de directorio de usuarios.
package directory

import (
	"context"
	"errors"
)

// Principal es la identidad verificada que devuelve el directorio.
// Transitoria: se consume una vez para construir la Authorization y no se
// cachea más allá del request que la produjo.
type Principal struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// ErrInvalidCredentials indica que el directorio rechazó usuario/contraseña.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Validator valida credenciales contra el directorio, scoped al tenant.
// Cualquier error (rechazo, transporte, timeout) termina el grant como
// access_denied; el caller no reintenta.
type Validator interface {
	Validate(ctx context.Context, tenant, username, password string) (*Principal, error)
}

package repository

import "errors"

// Errores comunes de repositorios.
var (
	// ErrNotFound indica que el registro no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica una violación de unicidad (id o token duplicado).
	ErrConflict = errors.New("conflict")
)

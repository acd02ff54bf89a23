package repository

import (
	"context"
	"time"
)

// TokenType distingue los dos tipos de token de una Authorization.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access_token"
	TokenTypeRefresh TokenType = "refresh_token"
)

// AccessToken es el material del token de acceso de una Authorization.
type AccessToken struct {
	Value       string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Scopes      []string
	Claims      map[string]any
	Invalidated bool
}

// Expired reporta si el token venció respecto de now.
// Un token sin expiración nunca vence.
func (t *AccessToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// RefreshToken es el material del refresh token opcional de una Authorization.
type RefreshToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Authorization es el registro durable que liga client, principal y tokens.
// Es la única fuente de verdad sobre la validez de un token: no hay deny-list
// separada, revocar es invalidar o borrar este registro.
//
// Invariante: a lo sumo un access token no invalidado por Authorization.
type Authorization struct {
	ID            string
	ClientID      string
	PrincipalName string
	GrantType     string
	Scopes        []string
	Attributes    map[string]string
	AccessToken   AccessToken
	RefreshToken  *RefreshToken
}

// AuthorizationRepository define el store de Authorizations.
// Save/FindByToken/Remove deben ser atómicas por registro; no se requieren
// transacciones entre registros.
type AuthorizationRepository interface {
	// Save hace upsert por ID.
	Save(ctx context.Context, authz *Authorization) error

	// FindByToken busca por valor exacto de token del tipo dado.
	// Retorna ErrNotFound si no existe.
	FindByToken(ctx context.Context, value string, tokenType TokenType) (*Authorization, error)

	// Remove elimina el registro completo.
	// Retorna ErrNotFound si no existe.
	Remove(ctx context.Context, id string) error
}

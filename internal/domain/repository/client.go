package repository

import (
	"context"
	"strings"
)

// Client representa una aplicación registrada que puede pedir tokens.
// Inmutable una vez cargado para un request.
type Client struct {
	ClientID   string
	Name       string
	SecretHash string // PHC argon2id; vacío para clients sin secret
	GrantTypes []string
	Scopes     []string
}

// AllowsGrant verifica si el grant type está permitido para el client.
func (c *Client) AllowsGrant(grantType string) bool {
	for _, g := range c.GrantTypes {
		if strings.EqualFold(g, grantType) {
			return true
		}
	}
	return false
}

// ClientRepository define operaciones de solo lectura sobre clients registrados.
// El registro de clients es un colaborador externo al core: authd solo lo consulta.
type ClientRepository interface {
	// Get obtiene un client por su client_id público.
	// Retorna ErrNotFound si no existe.
	Get(ctx context.Context, clientID string) (*Client, error)
}

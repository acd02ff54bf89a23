package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillrat/authd/internal/domain/repository"
)

// clientRepo lee el registro de clients desde la tabla clients.
// El registro es propiedad de otro servicio; authd solo consulta.
type clientRepo struct {
	pool *pgxpool.Pool
}

func (r *clientRepo) Get(ctx context.Context, clientID string) (*repository.Client, error) {
	const q = `
		SELECT client_id, name, secret_hash, grant_types, scopes
		FROM clients
		WHERE client_id = $1`

	var c repository.Client
	err := r.pool.QueryRow(ctx, q, clientID).Scan(
		&c.ClientID, &c.Name, &c.SecretHash, &c.GrantTypes, &c.Scopes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get client: %w", err)
	}
	return &c, nil
}

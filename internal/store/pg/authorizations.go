package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillrat/authd/internal/domain/repository"
)

// authzRepo implementa AuthorizationRepository scoped a un tenant.
// El upsert por id y el delete son atómicos a nivel de fila, que es toda la
// consistencia que el contrato pide.
type authzRepo struct {
	pool   *pgxpool.Pool
	tenant string
}

func (r *authzRepo) Save(ctx context.Context, a *repository.Authorization) error {
	claims, err := json.Marshal(a.AccessToken.Claims)
	if err != nil {
		return fmt.Errorf("pg: marshal claims: %w", err)
	}
	attrs, err := json.Marshal(a.Attributes)
	if err != nil {
		return fmt.Errorf("pg: marshal attributes: %w", err)
	}

	var rtValue *string
	var rtIssued, rtExpires *time.Time
	if a.RefreshToken != nil {
		rtValue = &a.RefreshToken.Value
		rtIssued = &a.RefreshToken.IssuedAt
		rtExpires = &a.RefreshToken.ExpiresAt
	}

	const q = `
		INSERT INTO authorizations (
			id, tenant_id, client_id, principal, grant_type, scopes, attributes,
			access_value, access_issued_at, access_expires_at, access_claims, access_invalidated,
			refresh_value, refresh_issued_at, refresh_expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
			scopes = EXCLUDED.scopes,
			attributes = EXCLUDED.attributes,
			access_value = EXCLUDED.access_value,
			access_issued_at = EXCLUDED.access_issued_at,
			access_expires_at = EXCLUDED.access_expires_at,
			access_claims = EXCLUDED.access_claims,
			access_invalidated = EXCLUDED.access_invalidated,
			refresh_value = EXCLUDED.refresh_value,
			refresh_issued_at = EXCLUDED.refresh_issued_at,
			refresh_expires_at = EXCLUDED.refresh_expires_at`
	_, err = r.pool.Exec(ctx, q,
		a.ID, r.tenant, a.ClientID, a.PrincipalName, a.GrantType, a.Scopes, attrs,
		a.AccessToken.Value, a.AccessToken.IssuedAt, a.AccessToken.ExpiresAt, claims, a.AccessToken.Invalidated,
		rtValue, rtIssued, rtExpires,
	)
	if err != nil {
		return fmt.Errorf("pg: save authorization: %w", err)
	}
	return nil
}

func (r *authzRepo) FindByToken(ctx context.Context, value string, tokenType repository.TokenType) (*repository.Authorization, error) {
	if value == "" {
		return nil, repository.ErrNotFound
	}

	col := "access_value"
	if tokenType == repository.TokenTypeRefresh {
		col = "refresh_value"
	}

	q := `
		SELECT id, client_id, principal, grant_type, scopes, attributes,
		       access_value, access_issued_at, access_expires_at, access_claims, access_invalidated,
		       refresh_value, refresh_issued_at, refresh_expires_at
		FROM authorizations
		WHERE tenant_id = $1 AND ` + col + ` = $2`

	var (
		a          repository.Authorization
		attrsJSON  []byte
		claimsJSON []byte
		rtValue    *string
		rtIssued   *time.Time
		rtExpires  *time.Time
	)
	err := r.pool.QueryRow(ctx, q, r.tenant, value).Scan(
		&a.ID, &a.ClientID, &a.PrincipalName, &a.GrantType, &a.Scopes, &attrsJSON,
		&a.AccessToken.Value, &a.AccessToken.IssuedAt, &a.AccessToken.ExpiresAt, &claimsJSON, &a.AccessToken.Invalidated,
		&rtValue, &rtIssued, &rtExpires,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: find authorization: %w", err)
	}

	if len(attrsJSON) > 0 {
		if err := json.Unmarshal(attrsJSON, &a.Attributes); err != nil {
			return nil, fmt.Errorf("pg: unmarshal attributes: %w", err)
		}
	}
	if len(claimsJSON) > 0 {
		if err := json.Unmarshal(claimsJSON, &a.AccessToken.Claims); err != nil {
			return nil, fmt.Errorf("pg: unmarshal claims: %w", err)
		}
	}
	a.AccessToken.Scopes = append([]string(nil), a.Scopes...)
	if rtValue != nil && *rtValue != "" {
		a.RefreshToken = &repository.RefreshToken{Value: *rtValue}
		if rtIssued != nil {
			a.RefreshToken.IssuedAt = *rtIssued
		}
		if rtExpires != nil {
			a.RefreshToken.ExpiresAt = *rtExpires
		}
	}
	return &a, nil
}

func (r *authzRepo) Remove(ctx context.Context, id string) error {
	const q = `DELETE FROM authorizations WHERE tenant_id = $1 AND id = $2`
	ct, err := r.pool.Exec(ctx, q, r.tenant, id)
	if err != nil {
		return fmt.Errorf("pg: remove authorization: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

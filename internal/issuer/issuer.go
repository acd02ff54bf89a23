// Package issuer produce el material de access tokens.
//
// Los tokens son valores opacos aleatorios: su validez la define únicamente el
// registro de Authorization en el store, no hay firma criptográfica interna.
package issuer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillrat/authd/internal/domain/repository"
	tokens "github.com/skillrat/authd/internal/security/token"
)

// Request agrupa las entradas para emitir un access token.
type Request struct {
	ClientID    string
	Subject     string // principal name (email o username)
	Tenant      string
	GrantType   string
	Authorities []string
	Scopes      []string
}

// Issuer emite access tokens opacos.
// Es una función pura de sus entradas más el reloj inyectado.
type Issuer struct {
	AccessTTL time.Duration
	Now       func() time.Time
}

// New crea un Issuer con TTL dado. Si ttl <= 0, usa 15 minutos.
func New(ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Issuer{AccessTTL: ttl, Now: time.Now}
}

// Issue genera el material del access token para el request dado.
func (i *Issuer) Issue(req Request) (*repository.AccessToken, error) {
	if req.ClientID == "" || req.Subject == "" {
		return nil, fmt.Errorf("issuer: client and subject are required")
	}

	value, err := tokens.GenerateOpaque(32)
	if err != nil {
		return nil, fmt.Errorf("issuer: generate token: %w", err)
	}

	now := i.now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := map[string]any{
		"jti":         uuid.NewString(),
		"sub":         req.Subject,
		"client_id":   req.ClientID,
		"grant_type":  req.GrantType,
		"authorities": req.Authorities,
		"iat":         now.Unix(),
		"exp":         exp.Unix(),
	}
	if req.Tenant != "" {
		claims["tenant_id"] = req.Tenant
	}
	if len(req.Scopes) > 0 {
		claims["scope"] = strings.Join(req.Scopes, " ")
	}

	return &repository.AccessToken{
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: exp,
		Scopes:    append([]string(nil), req.Scopes...),
		Claims:    claims,
	}, nil
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

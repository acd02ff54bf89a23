// Package oauth contiene los services del dominio de tokens de authd.
package oauth

import (
	"time"

	"github.com/skillrat/authd/internal/directory"
	"github.com/skillrat/authd/internal/issuer"
	"github.com/skillrat/authd/internal/store"
)

// Deps contiene las dependencias para crear los services OAuth.
type Deps struct {
	DAL        store.DataAccessLayer
	Issuer     *issuer.Issuer
	Directory  directory.Validator
	RefreshTTL time.Duration // TTL de refresh tokens (default 30 días)
	Now        func() time.Time
}

// Services agrupa todos los services del dominio OAuth.
type Services struct {
	Grants     *GrantRegistry
	Revoke     RevokeService
	Introspect IntrospectService
	Refresh    RefreshService
}

// NewServices crea el agregador de services OAuth.
func NewServices(d Deps) Services {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	ttl := d.RefreshTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	grants := NewGrantRegistry(
		NewPasswordGrant(PasswordGrantDeps{
			DAL:       d.DAL,
			Issuer:    d.Issuer,
			Directory: d.Directory,
		}),
	)

	return Services{
		Grants:     grants,
		Revoke:     NewRevokeService(RevokeDeps{DAL: d.DAL}),
		Introspect: NewIntrospectService(IntrospectDeps{DAL: d.DAL, Now: now}),
		Refresh: NewRefreshService(RefreshDeps{
			DAL:        d.DAL,
			RefreshTTL: ttl,
			Now:        now,
		}),
	}
}

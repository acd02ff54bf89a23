package oauth

import (
	"context"
	"errors"
	"time"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/observability/logger"
	"github.com/skillrat/authd/internal/store"
	"github.com/skillrat/authd/internal/tenant"
)

// IntrospectService reporta el estado y claims de un token sin mutarlo.
type IntrospectService interface {
	// Introspect siempre retorna un resultado: tokens desconocidos,
	// invalidados o expirados responden {active:false}.
	Introspect(ctx context.Context, token string) (map[string]any, error)
}

// IntrospectDeps contiene las dependencias del introspect service.
type IntrospectDeps struct {
	DAL store.DataAccessLayer
	Now func() time.Time
}

type introspectService struct {
	dal store.DataAccessLayer
	now func() time.Time
}

// NewIntrospectService crea el IntrospectService.
func NewIntrospectService(d IntrospectDeps) IntrospectService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &introspectService{dal: d.DAL, now: now}
}

func inactive() map[string]any { return map[string]any{"active": false} }

func (s *introspectService) Introspect(ctx context.Context, token string) (map[string]any, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.introspect"))

	if token == "" {
		return inactive(), nil
	}

	tda, err := s.dal.ForTenant(ctx, tenant.SlugOrDefault(ctx))
	if err != nil {
		return nil, err
	}

	authz, err := tda.Authorizations().FindByToken(ctx, token, repository.TokenTypeAccess)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug("introspect miss")
		return inactive(), nil
	}
	if err != nil {
		return nil, err
	}

	at := authz.AccessToken
	if at.Invalidated || at.Expired(s.now()) {
		return inactive(), nil
	}

	// Activo: todos los claims del token más el client dueño. Solo lectura,
	// sin sliding expiry.
	out := make(map[string]any, len(at.Claims)+2)
	for k, v := range at.Claims {
		out[k] = v
	}
	out["active"] = true
	out["client_id"] = authz.ClientID
	return out, nil
}

package oauth

import (
	"context"
	"errors"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/observability/logger"
	"github.com/skillrat/authd/internal/store"
	"github.com/skillrat/authd/internal/tenant"
)

// RevokeService define la revocación de access tokens.
type RevokeService interface {
	// Revoke busca la Authorization por access token y la elimina.
	// Retorna true si había algo que revocar; false en un miss (ya revocado
	// o desconocido). Idempotente y sin efectos en el miss.
	Revoke(ctx context.Context, token string) (bool, error)
}

// RevokeDeps contiene las dependencias del revoke service.
type RevokeDeps struct {
	DAL store.DataAccessLayer
}

type revokeService struct {
	dal store.DataAccessLayer
}

// NewRevokeService crea el RevokeService.
func NewRevokeService(d RevokeDeps) RevokeService {
	return &revokeService{dal: d.DAL}
}

func (s *revokeService) Revoke(ctx context.Context, token string) (bool, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.revoke"))

	if token == "" {
		return false, nil
	}

	tda, err := s.dal.ForTenant(ctx, tenant.SlugOrDefault(ctx))
	if err != nil {
		return false, err
	}

	authz, err := tda.Authorizations().FindByToken(ctx, token, repository.TokenTypeAccess)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug("revoke miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := tda.Authorizations().Remove(ctx, authz.ID); err != nil {
		// Una remoción concurrente ya revocó: sigue siendo un resultado válido.
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	log.Info("authorization revoked", logger.ClientID(authz.ClientID))
	return true, nil
}

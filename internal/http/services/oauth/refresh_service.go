package oauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/observability/logger"
	tokens "github.com/skillrat/authd/internal/security/token"
	"github.com/skillrat/authd/internal/store"
	"github.com/skillrat/authd/internal/tenant"
)

// Errores del flujo refresh-from-access. Ambos invalid_token salen como 401
// pero con error_description distinta: expirado no es lo mismo que desconocido.
var (
	ErrRefreshTokenMissing  = errors.New("missing bearer token")
	ErrAccessTokenUnknown   = errors.New("access token not recognized")
	ErrAccessTokenExpired   = errors.New("access token expired")
)

// RefreshService emite refresh tokens a partir de un access token vigente.
type RefreshService interface {
	RefreshFromAccess(ctx context.Context, accessToken string) (*RefreshResponse, error)
}

// RefreshResponse es la respuesta de /oauth/refresh-from-access.
type RefreshResponse struct {
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}

// RefreshDeps contiene las dependencias del refresh service.
type RefreshDeps struct {
	DAL        store.DataAccessLayer
	RefreshTTL time.Duration
	Now        func() time.Time
}

type refreshService struct {
	dal        store.DataAccessLayer
	refreshTTL time.Duration
	now        func() time.Time
}

// NewRefreshService crea el RefreshService.
func NewRefreshService(d RefreshDeps) RefreshService {
	ttl := d.RefreshTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &refreshService{dal: d.DAL, refreshTTL: ttl, now: now}
}

// RefreshFromAccess mintea un refresh token nuevo y lo adjunta a la
// Authorization existente del access token. Un refresh previo se pisa:
// last-write-wins, solo el último refresh queda recuperable.
func (s *refreshService) RefreshFromAccess(ctx context.Context, accessToken string) (*RefreshResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.refresh"))

	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrRefreshTokenMissing
	}

	tda, err := s.dal.ForTenant(ctx, tenant.SlugOrDefault(ctx))
	if err != nil {
		return nil, err
	}

	authz, err := tda.Authorizations().FindByToken(ctx, accessToken, repository.TokenTypeAccess)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccessTokenUnknown
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if authz.AccessToken.Invalidated {
		return nil, ErrAccessTokenUnknown
	}
	if authz.AccessToken.Expired(now) {
		return nil, ErrAccessTokenExpired
	}

	value, err := tokens.GenerateOpaque(32)
	if err != nil {
		return nil, err
	}

	authz.RefreshToken = &repository.RefreshToken{
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := tda.Authorizations().Save(ctx, authz); err != nil {
		return nil, err
	}

	log.Info("refresh token attached",
		logger.ClientID(authz.ClientID),
		logger.Principal(authz.PrincipalName),
	)

	resp := &RefreshResponse{
		RefreshToken: value,
		ExpiresIn:    int64(s.refreshTTL.Seconds()),
	}
	if len(authz.AccessToken.Scopes) > 0 {
		resp.Scope = strings.Join(authz.AccessToken.Scopes, " ")
	}
	return resp, nil
}

package oauth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillrat/authd/internal/directory"
	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/issuer"
	"github.com/skillrat/authd/internal/observability/logger"
	"github.com/skillrat/authd/internal/store"
	"github.com/skillrat/authd/internal/tenant"
)

// PasswordGrantDeps contiene las dependencias del grant de password.
type PasswordGrantDeps struct {
	DAL       store.DataAccessLayer
	Issuer    *issuer.Issuer
	Directory directory.Validator
}

// passwordGrant implementa el grant custom resource-owner-credentials de
// skillrat. Secuencia: client -> parámetros -> directorio -> authorities ->
// scopes -> emisión -> persistencia. Un fallo antes de persistir no deja
// ningún registro.
type passwordGrant struct {
	dal       store.DataAccessLayer
	issuer    *issuer.Issuer
	directory directory.Validator
}

// NewPasswordGrant crea el handler del grant custom.
func NewPasswordGrant(d PasswordGrantDeps) GrantHandler {
	return &passwordGrant{dal: d.DAL, issuer: d.Issuer, directory: d.Directory}
}

// Recognize solo acepta el URN custom; todo lo demás cae al resto del registry.
func (g *passwordGrant) Recognize(form url.Values) bool {
	return strings.TrimSpace(form.Get("grant_type")) == PasswordGrantURN
}

// Exchange ejecuta la máquina de estados del grant.
func (g *passwordGrant) Exchange(ctx context.Context, req GrantRequest) (*TokenResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.grant.password"))

	slug := tenant.SlugOrDefault(ctx)
	tda, err := g.dal.ForTenant(ctx, slug)
	if err != nil {
		log.Error("tenant data access unavailable", logger.TenantID(slug), logger.Err(err))
		return nil, ErrServerError
	}

	// 1. Client registrado y habilitado para este grant.
	client, err := tda.Clients().Get(ctx, req.ClientID)
	if err != nil {
		log.Warn("client not registered", logger.ClientID(req.ClientID))
		return nil, ErrUnauthorizedClient
	}
	if !client.AllowsGrant(PasswordGrantURN) {
		log.Warn("grant not allowed for client", logger.ClientID(req.ClientID))
		return nil, ErrUnauthorizedClient
	}

	// 2. Parámetros presentes y no vacíos.
	username := strings.TrimSpace(req.Form.Get("username"))
	password := req.Form.Get("password")
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidRequest
	}

	// 3. Validación contra el directorio externo, scoped al tenant.
	// Rechazo, timeout o no-2xx terminan igual: access_denied, sin reintentos.
	principal, err := g.directory.Validate(ctx, slug, username, password)
	if err != nil {
		if !errors.Is(err, directory.ErrInvalidCredentials) {
			log.Warn("directory validation failed", logger.Err(err))
		}
		return nil, ErrAccessDenied
	}

	// 4. Authorities desde los roles del directorio; nunca un set vacío.
	authorities := mapAuthorities(principal.Roles)

	// 5. Scopes: el set completo del client, sin narrowing por request.
	scopes := append([]string(nil), client.Scopes...)

	// 6. Emisión del access token.
	principalName := principal.Email
	if principalName == "" {
		principalName = username
	}
	access, err := g.issuer.Issue(issuer.Request{
		ClientID:    client.ClientID,
		Subject:     principalName,
		Tenant:      slug,
		GrantType:   PasswordGrantURN,
		Authorities: authorities,
		Scopes:      scopes,
	})
	if err != nil {
		log.Error("token issuance failed", logger.Err(err))
		return nil, ErrServerError
	}

	// 7. Persistir la Authorization (único paso con efecto durable).
	authz := &repository.Authorization{
		ID:            uuid.NewString(),
		ClientID:      client.ClientID,
		PrincipalName: principalName,
		GrantType:     PasswordGrantURN,
		Scopes:        scopes,
		Attributes:    map[string]string{"username": username},
		AccessToken:   *access,
	}
	if err := tda.Authorizations().Save(ctx, authz); err != nil {
		log.Error("failed to persist authorization", logger.Err(err))
		return nil, ErrServerError
	}

	log.Info("password grant issued",
		logger.TenantID(slug),
		logger.ClientID(client.ClientID),
		logger.Principal(principalName),
	)

	// 8. Respuesta con el scope unido por espacios.
	return &TokenResponse{
		AccessToken: access.Value,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(access.ExpiresAt).Seconds()),
		Scope:       strings.Join(scopes, " "),
	}, nil
}

// mapAuthorities convierte roles del directorio en authorities ROLE_*.
// Sin roles, el baseline es ROLE_USER.
func mapAuthorities(roles []string) []string {
	if len(roles) == 0 {
		return []string{"ROLE_USER"}
	}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.HasPrefix(r, "ROLE_") {
			r = "ROLE_" + strings.ToUpper(r)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return []string{"ROLE_USER"}
	}
	return out
}

package oauth

import (
	"context"
	"errors"
	"net/url"
)

// PasswordGrantURN es el identificador del grant custom de skillrat.
const PasswordGrantURN = "urn:ietf:params:oauth:grant-type:skillrat-password"

// Errores estándar del token endpoint (códigos OAuth2).
var (
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrUnauthorizedClient   = errors.New("unauthorized_client")
	ErrAccessDenied         = errors.New("access_denied")
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")
	ErrServerError          = errors.New("server_error")
)

// TokenResponse es la respuesta estándar del token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// GrantRequest es un token request ya autenticado a nivel de client.
// ClientID viene del middleware de client auth, no del form.
type GrantRequest struct {
	ClientID string
	Form     url.Values
}

// GrantHandler procesa un grant type concreto.
// Recognize nunca falla: si el grant_type no es el suyo retorna false y el
// registry sigue probando con el resto (los grants estándar fluyen por su
// propio handler).
type GrantHandler interface {
	// Recognize reporta si este handler atiende el form recibido.
	Recognize(form url.Values) bool

	// Exchange ejecuta el grant reconocido.
	Exchange(ctx context.Context, req GrantRequest) (*TokenResponse, error)
}

// GrantRegistry despacha un token request al primer handler que lo reconozca.
type GrantRegistry struct {
	handlers []GrantHandler
}

// NewGrantRegistry crea el registry con los handlers en orden de prioridad.
func NewGrantRegistry(handlers ...GrantHandler) *GrantRegistry {
	return &GrantRegistry{handlers: handlers}
}

// Exchange prueba cada handler en orden. Si ninguno reconoce el grant_type,
// retorna ErrUnsupportedGrantType.
func (r *GrantRegistry) Exchange(ctx context.Context, req GrantRequest) (*TokenResponse, error) {
	for _, h := range r.handlers {
		if h.Recognize(req.Form) {
			return h.Exchange(ctx, req)
		}
	}
	return nil, ErrUnsupportedGrantType
}

package oauth

import (
	"errors"
	"net/http"
	"strings"

	mw "github.com/skillrat/authd/internal/http/middlewares"
	svc "github.com/skillrat/authd/internal/http/services/oauth"
	"github.com/skillrat/authd/internal/metrics"
	"github.com/skillrat/authd/internal/observability/logger"
	"github.com/skillrat/authd/internal/tenant"
)

// TokenController handles the OAuth2 token endpoint.
type TokenController struct {
	grants *svc.GrantRegistry
}

// NewTokenController creates the controller.
func NewTokenController(grants *svc.GrantRegistry) *TokenController {
	return &TokenController{grants: grants}
}

// Token handles POST /oauth/token.
// The request must arrive client-authenticated (WithClientAuth); the grant
// registry dispatches by grant_type.
func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.token"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeOAuthError(w, http.StatusMethodNotAllowed, "invalid_request", "Only POST method is allowed")
		return
	}

	// Limit body size (64KB for OAuth forms)
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", logger.Err(err))
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	grantType := strings.TrimSpace(r.PostForm.Get("grant_type"))
	log = log.With(logger.GrantType(grantType))

	resp, err := c.grants.Exchange(ctx, svc.GrantRequest{
		ClientID: mw.GetClientID(ctx),
		Form:     r.PostForm,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	metrics.GrantsIssued.WithLabelValues(grantType, tenant.SlugOrDefault(ctx)).Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (c *TokenController) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.From(r.Context())

	switch {
	case errors.Is(err, svc.ErrInvalidRequest):
		metrics.GrantsRejected.WithLabelValues("invalid_request").Inc()
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Missing or invalid parameters")
	case errors.Is(err, svc.ErrUnauthorizedClient):
		metrics.GrantsRejected.WithLabelValues("unauthorized_client").Inc()
		writeOAuthError(w, http.StatusUnauthorized, "unauthorized_client", "Client not authorized for this grant type")
	case errors.Is(err, svc.ErrAccessDenied):
		metrics.GrantsRejected.WithLabelValues("access_denied").Inc()
		writeOAuthError(w, http.StatusForbidden, "access_denied", "Credentials rejected")
	case errors.Is(err, svc.ErrUnsupportedGrantType):
		metrics.GrantsRejected.WithLabelValues("unsupported_grant_type").Inc()
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "Grant type not supported")
	default:
		metrics.GrantsRejected.WithLabelValues("server_error").Inc()
		log.Error("token endpoint error", logger.Err(err))
		writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred")
	}
}

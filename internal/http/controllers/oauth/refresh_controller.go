package oauth

import (
	"errors"
	"net/http"
	"strings"

	svc "github.com/skillrat/authd/internal/http/services/oauth"
	"github.com/skillrat/authd/internal/observability/logger"
)

// RefreshController handles POST /oauth/refresh-from-access.
type RefreshController struct {
	service svc.RefreshService
}

// NewRefreshController creates the controller.
func NewRefreshController(s svc.RefreshService) *RefreshController {
	return &RefreshController{service: s}
}

// RefreshFromAccess mints a refresh token for a still-valid access token.
// The bearer value comes from the Authorization header, with a token form or
// query parameter as fallback.
func (c *RefreshController) RefreshFromAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.refresh_from_access"))

	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	token := bearerToken(r)
	if token == "" {
		token = strings.TrimSpace(r.Form.Get("token"))
	}

	resp, err := c.service.RefreshFromAccess(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrRefreshTokenMissing):
			writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Missing bearer token")
		case errors.Is(err, svc.ErrAccessTokenExpired):
			writeOAuthError(w, http.StatusUnauthorized, "invalid_token", "Access token expired")
		case errors.Is(err, svc.ErrAccessTokenUnknown):
			writeOAuthError(w, http.StatusUnauthorized, "invalid_token", "Token not recognized")
		default:
			log.Error("refresh-from-access failed", logger.Err(err))
			writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// bearerToken extracts the value of an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

package oauth

import (
	"net/http"
	"strings"

	svc "github.com/skillrat/authd/internal/http/services/oauth"
	"github.com/skillrat/authd/internal/metrics"
	"github.com/skillrat/authd/internal/observability/logger"
)

// RevokeController handles POST /oauth/revoke.
type RevokeController struct {
	service svc.RevokeService
}

// NewRevokeController creates the controller.
func NewRevokeController(s svc.RevokeService) *RevokeController {
	return &RevokeController{service: s}
}

// Revoke removes the Authorization owning the given access token.
// Responds 200 on hit and on miss alike: revocation is idempotent and the
// endpoint must not leak whether a token ever existed.
func (c *RevokeController) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.revoke"))

	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	token := strings.TrimSpace(r.PostForm.Get("token"))
	if token == "" {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Missing token parameter")
		return
	}

	revoked, err := c.service.Revoke(ctx, token)
	if err != nil {
		log.Error("revocation failed", logger.Err(err))
		writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred")
		return
	}

	if revoked {
		metrics.Revocations.WithLabelValues("hit").Inc()
	} else {
		metrics.Revocations.WithLabelValues("miss").Inc()
	}

	writeJSON(w, http.StatusOK, map[string]any{})
}

package oauth

import (
	"net/http"
	"strings"

	svc "github.com/skillrat/authd/internal/http/services/oauth"
	"github.com/skillrat/authd/internal/metrics"
	"github.com/skillrat/authd/internal/observability/logger"
)

// IntrospectController handles GET /oauth/check_token.
type IntrospectController struct {
	service svc.IntrospectService
}

// NewIntrospectController creates the controller.
func NewIntrospectController(s svc.IntrospectService) *IntrospectController {
	return &IntrospectController{service: s}
}

// CheckToken reports liveness and claims of a token without mutating state.
// Unknown, revoked and expired tokens all come back as {"active":false}.
func (c *IntrospectController) CheckToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.check_token"))

	token := strings.TrimSpace(r.URL.Query().Get("token"))

	result, err := c.service.Introspect(ctx, token)
	if err != nil {
		log.Error("introspection failed", logger.Err(err))
		writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred")
		return
	}

	if active, _ := result["active"].(bool); active {
		metrics.Introspections.WithLabelValues("active").Inc()
	} else {
		metrics.Introspections.WithLabelValues("inactive").Inc()
	}

	writeJSON(w, http.StatusOK, result)
}

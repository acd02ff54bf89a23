package middlewares

import (
	"encoding/json"
	"net/http"

	httperrors "github.com/skillrat/authd/internal/http/errors"
	"github.com/skillrat/authd/internal/observability/logger"
	"github.com/skillrat/authd/internal/tenant"
)

// ClaimsGuardConfig configura el guard de claims de tenant.
type ClaimsGuardConfig struct {
	// Header con el payload JSON de claims asertado por el gateway.
	ClaimsHeader string
	// Clave del claim de tenant dentro del payload.
	ClaimKey string
}

// WithTenantClaimGuard cruza el claim de tenant asertado upstream contra el
// tenant del request. Es defensa en profundidad, no la puerta principal: el
// resource server valida el token por su cuenta, así que un payload de claims
// imparseable deja pasar (fail open). Un mismatch explícito rechaza con 403.
func WithTenantClaimGuard(cfg ClaimsGuardConfig) Middleware {
	header := cfg.ClaimsHeader
	if header == "" {
		header = "X-Principal-Claims"
	}
	key := cfg.ClaimKey
	if key == "" {
		key = "tenant_id"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, ok := tenant.Slug(r.Context())
			payload := r.Header.Get(header)

			// Sin tenant actual o sin claims no hay nada que cruzar.
			if !ok || payload == "" {
				next.ServeHTTP(w, r)
				return
			}

			var claims map[string]any
			if err := json.Unmarshal([]byte(payload), &claims); err != nil {
				// Fail open: el payload corrupto no bloquea, el token manda.
				logger.From(r.Context()).Debug("claims payload unparseable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if claimed, ok := claims[key].(string); ok && claimed != "" && claimed != current {
				logger.From(r.Context()).Warn("tenant claim mismatch",
					logger.TenantID(current),
					logger.String("claimed", claimed),
				)
				httperrors.WriteError(w, httperrors.ErrTenantMismatch)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

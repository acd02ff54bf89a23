package middlewares

import (
	"net/http"

	httperrors "github.com/skillrat/authd/internal/http/errors"
	"github.com/skillrat/authd/internal/observability/logger"
)

// WithRecover captura panics y devuelve un error 500 en lugar de crashear.
// El detalle del panic queda solo en los logs del servidor.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log := logger.From(r.Context())
					log.Error("panic recovered",
						logger.Op("recover"),
						logger.Any("panic", rec),
					)
					httperrors.WriteError(w, httperrors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

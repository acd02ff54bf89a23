package middlewares

import (
	"net/http"

	"github.com/skillrat/authd/internal/domain/repository"
	"github.com/skillrat/authd/internal/observability/logger"
	"github.com/skillrat/authd/internal/security/password"
	"github.com/skillrat/authd/internal/store"
	"github.com/skillrat/authd/internal/tenant"
)

// WithClientAuth autentica al client del token endpoint vía HTTP Basic
// (client_id:client_secret) contra el registro de clients. El client_id
// autenticado queda en el contexto; los services confían en él y no vuelven
// a leer credenciales del form.
func WithClientAuth(dal store.DataAccessLayer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, secret, ok := r.BasicAuth()
			if !ok || clientID == "" {
				writeInvalidClient(w)
				return
			}

			tda, err := dal.ForTenant(r.Context(), tenant.SlugOrDefault(r.Context()))
			if err != nil {
				logger.From(r.Context()).Error("client auth: tenant data access", logger.Err(err))
				writeInvalidClient(w)
				return
			}

			client, err := tda.Clients().Get(r.Context(), clientID)
			if err != nil {
				if err != repository.ErrNotFound {
					logger.From(r.Context()).Warn("client auth: lookup failed", logger.Err(err))
				}
				writeInvalidClient(w)
				return
			}

			if client.SecretHash != "" && !password.Verify(secret, client.SecretHash) {
				writeInvalidClient(w)
				return
			}

			ctx := setClientID(r.Context(), client.ClientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeInvalidClient(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="authd"`)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Client authentication failed"}`))
}

// Package http arma el router y el servidor de authd.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthctrl "github.com/skillrat/authd/internal/http/controllers/health"
	oauthctrl "github.com/skillrat/authd/internal/http/controllers/oauth"
	mw "github.com/skillrat/authd/internal/http/middlewares"
	"github.com/skillrat/authd/internal/store"
)

// RouterDeps contiene las dependencias del router.
type RouterDeps struct {
	DAL store.DataAccessLayer

	Token      *oauthctrl.TokenController
	Introspect *oauthctrl.IntrospectController
	Revoke     *oauthctrl.RevokeController
	Refresh    *oauthctrl.RefreshController
	Health     *healthctrl.Controller

	TenantResolver mw.TenantResolver
	ClaimsGuard    mw.ClaimsGuardConfig
}

// NewRouter registra todas las rutas con su cadena de middlewares.
// Orden global: request id -> tenant -> logging -> metrics -> recover ->
// claim guard. El tenant se resuelve antes de loguear para que cada línea
// salga con su tenant_id.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithTenantResolution(deps.TenantResolver),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithRecover(),
		mw.WithTenantClaimGuard(deps.ClaimsGuard),
	)

	r.Route("/oauth", func(r chi.Router) {
		// Token endpoint: exige client auth (Basic client_id:client_secret).
		r.Group(func(r chi.Router) {
			r.Use(mw.WithClientAuth(deps.DAL))
			r.Post("/token", deps.Token.Token)
		})

		r.Get("/check_token", deps.Introspect.CheckToken)
		r.Post("/revoke", deps.Revoke.Revoke)
		r.Post("/refresh-from-access", deps.Refresh.RefreshFromAccess)
	})

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

package middlewares

import (
	"net/http"
	"strings"

	"github.com/skillrat/authd/internal/tenant"
)

// =================================================================================
// TENANT RESOLVER
// =================================================================================

// TenantResolver define cómo obtener el tenant slug de un request.
// Retorna "" si no puede resolver; eso no es un error por sí solo.
type TenantResolver func(r *http.Request) string

// HeaderTenantResolver resuelve usando un header específico.
func HeaderTenantResolver(headerName string) TenantResolver {
	if headerName == "" {
		headerName = "X-Skillrat-Tenant"
	}
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(headerName))
	}
}

// SubdomainTenantResolver resuelve desde el subdominio contra un dominio base.
// Ej: base "skillrat.io" y host acme.skillrat.io -> "acme".
// Si el host no termina en el dominio base, no resuelve.
func SubdomainTenantResolver(baseDomain string) TenantResolver {
	base := strings.TrimPrefix(strings.TrimSpace(baseDomain), ".")
	return func(r *http.Request) string {
		if base == "" {
			return ""
		}
		host := r.Host
		// Remover puerto si existe
		if i := strings.LastIndex(host, ":"); i > 0 && !strings.Contains(host[i:], "]") {
			host = host[:i]
		}
		host = strings.ToLower(host)
		if host == base {
			return ""
		}
		if !strings.HasSuffix(host, "."+base) {
			return ""
		}
		return strings.TrimSuffix(host, "."+base)
	}
}

// ChainResolvers combina múltiples resolvers, retornando el primer resultado no vacío.
func ChainResolvers(resolvers ...TenantResolver) TenantResolver {
	return func(r *http.Request) string {
		for _, resolver := range resolvers {
			if slug := resolver(r); slug != "" {
				return slug
			}
		}
		return ""
	}
}

// =================================================================================
// TENANT MIDDLEWARE
// =================================================================================

// WithTenantResolution resuelve el tenant y lo publica en el contexto del
// request. El valor vive y muere con el contexto: al terminar el request no
// queda estado que limpiar, y requests concurrentes nunca comparten tenant.
// Un request sin tenant sigue adelante; el routing de datos cae a la
// partición default.
func WithTenantResolution(resolver TenantResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slug := resolver(r); slug != "" {
				r = r.WithContext(tenant.WithSlug(r.Context(), slug))
			}
			next.ServeHTTP(w, r)
		})
	}
}

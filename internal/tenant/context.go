// Package tenant maneja el identificador de tenant por request.
//
// El tenant viaja SIEMPRE en el context.Context del request, nunca en estado
// compartido: dos requests concurrentes no pueden verse el tenant entre sí, y
// el valor muere con el contexto al terminar el request (éxito o error).
package tenant

import "context"

// Default es la partición usada cuando ningún resolver produjo tenant.
const Default = "default"

type ctxKey struct{}

// WithSlug inyecta el tenant en el contexto.
func WithSlug(ctx context.Context, slug string) context.Context {
	return context.WithValue(ctx, ctxKey{}, slug)
}

// Slug extrae el tenant del contexto.
// Retorna "" y false si el request no resolvió tenant.
func Slug(ctx context.Context) (string, bool) {
	if v := ctx.Value(ctxKey{}); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// SlugOrDefault extrae el tenant del contexto, o Default si no hay.
func SlugOrDefault(ctx context.Context) string {
	if s, ok := Slug(ctx); ok {
		return s
	}
	return Default
}

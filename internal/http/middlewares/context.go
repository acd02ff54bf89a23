package middlewares

import "context"

type ctxKey string

const (
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
	// ctxClientIDKey guarda el client_id autenticado en el token endpoint
	ctxClientIDKey ctxKey = "client_id"
)

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func setClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ctxClientIDKey, clientID)
}

// GetClientID obtiene el client_id autenticado del contexto.
// Solo está presente detrás de WithClientAuth.
func GetClientID(ctx context.Context) string {
	if v := ctx.Value(ctxClientIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Package logger provee logging estructurado con zap para authd.
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: "prod", Level: "info"})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.grant"))
//	log.Info("authorization persisted", logger.TenantID(slug))
//
// El middleware HTTP inyecta un logger scoped (request_id, method, path) en el
// contexto; From(ctx) lo recupera o cae al singleton.
package logger

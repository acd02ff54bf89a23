// Package app hace el wiring de configuración a dependencias concretas.
package app

import (
	"context"
	"fmt"

	"github.com/skillrat/authd/internal/config"
	"github.com/skillrat/authd/internal/directory"
	"github.com/skillrat/authd/internal/domain/repository"
	httpx "github.com/skillrat/authd/internal/http"
	healthctrl "github.com/skillrat/authd/internal/http/controllers/health"
	oauthctrl "github.com/skillrat/authd/internal/http/controllers/oauth"
	mw "github.com/skillrat/authd/internal/http/middlewares"
	oauthsvc "github.com/skillrat/authd/internal/http/services/oauth"
	"github.com/skillrat/authd/internal/issuer"
	"github.com/skillrat/authd/internal/observability/logger"
	"github.com/skillrat/authd/internal/security/password"
	"github.com/skillrat/authd/internal/store"
	memorystore "github.com/skillrat/authd/internal/store/memory"
	pgstore "github.com/skillrat/authd/internal/store/pg"
	redisstore "github.com/skillrat/authd/internal/store/redis"
)

// App agrupa lo que main necesita para correr el servicio.
type App struct {
	Server  *httpx.Server
	cleanup func()
}

// Close libera recursos (pools, conexiones).
func (a *App) Close() {
	if a.cleanup != nil {
		a.cleanup()
	}
}

// New construye el servicio completo a partir de la configuración.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	dal, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	validator := directory.NewHTTPValidator(directory.HTTPValidatorConfig{
		BaseURL:      cfg.Directory.URL,
		TenantHeader: cfg.Tenant.Header,
		Timeout:      cfg.DirectoryTimeout(),
	})

	services := oauthsvc.NewServices(oauthsvc.Deps{
		DAL:        dal,
		Issuer:     issuer.New(cfg.AccessTTL()),
		Directory:  validator,
		RefreshTTL: cfg.RefreshTTL(),
	})

	handler := httpx.NewRouter(httpx.RouterDeps{
		DAL:        dal,
		Token:      oauthctrl.NewTokenController(services.Grants),
		Introspect: oauthctrl.NewIntrospectController(services.Introspect),
		Revoke:     oauthctrl.NewRevokeController(services.Revoke),
		Refresh:    oauthctrl.NewRefreshController(services.Refresh),
		Health:     healthctrl.NewController(dal),
		TenantResolver: mw.ChainResolvers(
			mw.HeaderTenantResolver(cfg.Tenant.Header),
			mw.SubdomainTenantResolver(cfg.Tenant.BaseDomain),
		),
		ClaimsGuard: mw.ClaimsGuardConfig{
			ClaimsHeader: cfg.Tenant.ClaimsHeader,
			ClaimKey:     cfg.Tenant.ClaimKey,
		},
	})

	server := httpx.NewServer(httpx.ServerConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.ReadTimeout(),
		WriteTimeout:    cfg.WriteTimeout(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
	}, handler)

	return &App{Server: server, cleanup: dal.Close}, nil
}

// buildStore elige el adapter de persistencia según el driver configurado.
func buildStore(ctx context.Context, cfg *config.Config) (store.DataAccessLayer, error) {
	log := logger.Named("app")

	switch cfg.Storage.Driver {
	case "memory", "":
		log.Info("using in-memory store")
		return memorystore.New(seedRegistry(cfg)), nil

	case "postgres":
		log.Info("using postgres store")
		return pgstore.New(ctx, cfg.Storage.Postgres.DSN)

	case "redis":
		log.Info("using redis store", logger.String("addr", cfg.Storage.Redis.Addr))
		return redisstore.New(
			cfg.Storage.Redis.Addr,
			cfg.Storage.Redis.DB,
			cfg.Storage.Redis.Prefix,
			seedRegistry(cfg),
		), nil

	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.Storage.Driver)
	}
}

// seedRegistry arma el registro de clients desde configuración, hasheando
// secrets planos (solo esperables en dev) y cacheando lecturas.
func seedRegistry(cfg *config.Config) repository.ClientRepository {
	log := logger.Named("app")

	clients := make([]repository.Client, 0, len(cfg.Clients))
	for _, sc := range cfg.Clients {
		hash := sc.SecretHash
		if hash == "" && sc.Secret != "" {
			h, err := password.Hash(password.Default, sc.Secret)
			if err != nil {
				log.Warn("skipping client with unhashable secret", logger.ClientID(sc.ClientID), logger.Err(err))
				continue
			}
			hash = h
		}
		clients = append(clients, repository.Client{
			ClientID:   sc.ClientID,
			Name:       sc.Name,
			SecretHash: hash,
			GrantTypes: sc.GrantTypes,
			Scopes:     sc.Scopes,
		})
	}
	log.Info("seeded client registry", logger.Int("clients", len(clients)))

	return store.NewCachedClients(store.NewSeedClients(clients), 0)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de authd.
// Se carga desde YAML y se puede sobreescribir por variables de entorno.
type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr            string `yaml:"addr"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Tenant struct {
		// Header explícito con el tenant (primera prioridad).
		Header string `yaml:"header"`
		// Dominio base para resolución por subdominio (segunda prioridad).
		// Ej: base_domain "skillrat.io" resuelve acme.skillrat.io -> "acme".
		BaseDomain string `yaml:"base_domain"`
		// Header con claims asertadas por el gateway (JSON).
		ClaimsHeader string `yaml:"claims_header"`
		// Clave del claim de tenant dentro del payload de claims.
		ClaimKey string `yaml:"claim_key"`
	} `yaml:"tenant"`

	Directory struct {
		// URL del servicio de directorio de usuarios (validación de credenciales).
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"directory"`

	Token struct {
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
	} `yaml:"token"`

	Storage struct {
		// memory | postgres | redis
		Driver   string `yaml:"driver"`
		Postgres struct {
			DSN string `yaml:"dsn"`
		} `yaml:"postgres"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"storage"`

	// Clients sembrados por configuración (modo single-binary / dev).
	Clients []SeedClient `yaml:"clients"`
}

// SeedClient es un client registrado vía configuración.
// SecretHash es un PHC argon2id; Secret plano solo para entornos dev y se
// hashea al cargar.
type SeedClient struct {
	ClientID   string   `yaml:"client_id"`
	Name       string   `yaml:"name"`
	Secret     string   `yaml:"secret"`
	SecretHash string   `yaml:"secret_hash"`
	GrantTypes []string `yaml:"grant_types"`
	Scopes     []string `yaml:"scopes"`
}

// Load lee el YAML (si path no está vacío), aplica defaults y overrides de entorno.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.App.Env, "AUTHD_ENV")
	setStr(&c.Log.Level, "AUTHD_LOG_LEVEL")
	setStr(&c.Server.Addr, "AUTHD_ADDR")
	setStr(&c.Tenant.Header, "AUTHD_TENANT_HEADER")
	setStr(&c.Tenant.BaseDomain, "AUTHD_TENANT_BASE_DOMAIN")
	setStr(&c.Directory.URL, "AUTHD_DIRECTORY_URL")
	setStr(&c.Directory.Timeout, "AUTHD_DIRECTORY_TIMEOUT")
	setStr(&c.Token.AccessTTL, "AUTHD_ACCESS_TTL")
	setStr(&c.Token.RefreshTTL, "AUTHD_REFRESH_TTL")
	setStr(&c.Storage.Driver, "AUTHD_STORAGE_DRIVER")
	setStr(&c.Storage.Postgres.DSN, "AUTHD_PG_DSN")
	setStr(&c.Storage.Redis.Addr, "AUTHD_REDIS_ADDR")
	setInt(&c.Storage.Redis.DB, "AUTHD_REDIS_DB")
	setStr(&c.Storage.Redis.Prefix, "AUTHD_REDIS_PREFIX")
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "15s"
	}
	if c.Tenant.Header == "" {
		c.Tenant.Header = "X-Skillrat-Tenant"
	}
	if c.Tenant.ClaimsHeader == "" {
		c.Tenant.ClaimsHeader = "X-Principal-Claims"
	}
	if c.Tenant.ClaimKey == "" {
		c.Tenant.ClaimKey = "tenant_id"
	}
	if c.Directory.Timeout == "" {
		c.Directory.Timeout = "5s"
	}
	if c.Token.AccessTTL == "" {
		c.Token.AccessTTL = "15m"
	}
	if c.Token.RefreshTTL == "" {
		c.Token.RefreshTTL = "720h" // 30 días
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "authd"
	}
}

// ---------------------------------------------------------------------------------
// Helpers de duración
// ---------------------------------------------------------------------------------

// D parsea una duración de config con fallback.
func D(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (c *Config) ReadTimeout() time.Duration     { return D(c.Server.ReadTimeout, 10*time.Second) }
func (c *Config) WriteTimeout() time.Duration    { return D(c.Server.WriteTimeout, 30*time.Second) }
func (c *Config) ShutdownTimeout() time.Duration { return D(c.Server.ShutdownTimeout, 15*time.Second) }
func (c *Config) DirectoryTimeout() time.Duration {
	return D(c.Directory.Timeout, 5*time.Second)
}
func (c *Config) AccessTTL() time.Duration  { return D(c.Token.AccessTTL, 15*time.Minute) }
func (c *Config) RefreshTTL() time.Duration { return D(c.Token.RefreshTTL, 720*time.Hour) }

// ---------------------------------------------------------------------------------
// Helpers de entorno
// ---------------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vasapolrittideah/becbilldesk-api/shared/mailer"
)

// AuthServiceConfig holds the configuration of the auth service.
type AuthServiceConfig struct {
	AppEnv    string `env:"APP_ENV"    envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`

	// DashboardURL defaults to ClientURL when empty.
	DashboardURL string `env:"DASHBOARD_URL"`

	HTTP    HTTPConfig    `envPrefix:"HTTP_"`
	Mongo   MongoConfig   `envPrefix:"MONGO_"`
	Token   TokenConfig   `envPrefix:"TOKEN_"`
	Service ServiceConfig `envPrefix:"SERVICE_"`
	Consul  ConsulConfig  `envPrefix:"CONSUL_"`
	Mailer  mailer.Config
}

type HTTPConfig struct {
	Host            string        `env:"HOST"             envDefault:"0.0.0.0"`
	Port            int           `env:"PORT"             envDefault:"5000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type MongoConfig struct {
	URI      string `env:"URI,required,notEmpty"`
	Database string `env:"DATABASE"             envDefault:"becbilldesk"`
}

type TokenConfig struct {
	SessionSecret               string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionExpiresIn            time.Duration `env:"SESSION_EXPIRES_IN"              envDefault:"168h"`
	Issuer                      string        `env:"ISSUER"                          envDefault:"becbilldesk-auth"`
	VerificationCodeExpiresIn   time.Duration `env:"VERIFICATION_CODE_EXPIRES_IN"    envDefault:"24h"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"1h"`
}

type ServiceConfig struct {
	Name    string `env:"NAME"    envDefault:"auth-service"`
	Address string `env:"ADDRESS"`
}

type ConsulConfig struct {
	Address string `env:"ADDRESS"`
}

// Load reads the configuration from the process environment.
func Load() (*AuthServiceConfig, error) {
	return load(env.Options{})
}

// LoadFromMap reads the configuration from the given variables only.
func LoadFromMap(environment map[string]string) (*AuthServiceConfig, error) {
	return load(env.Options{Environment: environment})
}

func load(opts env.Options) (*AuthServiceConfig, error) {
	cfg, err := env.ParseAsWithOptions[AuthServiceConfig](opts)
	if err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}

	if cfg.DashboardURL == "" {
		cfg.DashboardURL = cfg.ClientURL
	}
	cfg.ClientURL = strings.TrimRight(cfg.ClientURL, "/")

	if cfg.Service.Address == "" {
		cfg.Service.Address = cfg.HTTP.Host
	}

	if cfg.Mailer.Enabled() {
		if err := cfg.Mailer.Validate(); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c *AuthServiceConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

// Addr returns the HTTP listen address.
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

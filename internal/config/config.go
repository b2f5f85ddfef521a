// Package config loads service settings from the environment, optionally
// seeded by a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config reúne as configurações comuns a todos os serviços
type Config struct {
	ServiceName    string        `env:"SERVICE_NAME"`
	ServiceVersion string        `env:"SERVICE_VERSION,default=1.0.0"`
	Port           string        `env:"PORT,default=8080"`
	BasePath       string        `env:"API_BASE_PATH,default=/api"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT,default=30s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT,default=30s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT,default=30s"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TelemetryEnabled bool   `env:"OTEL_ENABLED,default=false"`

	Database Database

	// StoreDriver escolhe o armazenamento quando o cenário suporta mais de um
	StoreDriver string `env:"STORE_DRIVER"`
	RedisURL    string `env:"REDIS_URL,default=redis://localhost:6379/0"`
}

// Database reúne as configurações de conexão com o PostgreSQL
type Database struct {
	URL            string `env:"DATABASE_URL"`
	User           string `env:"DATABASE_USER,default=root"`
	Password       string `env:"DATABASE_PASSWORD,default=pass"`
	Host           string `env:"DATABASE_HOST,default=localhost"`
	Port           string `env:"DATABASE_PORT,default=5432"`
	Name           string `env:"DATABASE_NAME"`
	SSLMode        string `env:"DATABASE_SSLMODE,default=disable"`
	MaxConns       int32  `env:"DATABASE_MAX_CONNS,default=10"`
	MinConns       int32  `env:"DATABASE_MIN_CONNS,default=2"`
	ConnectRetries int    `env:"DATABASE_CONNECT_RETRIES,default=30"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START,default=true"`
}

// Load lê o .env (se existir) e decodifica as variáveis de ambiente.
// serviceName e databaseName são usados quando as variáveis não estão definidas.
func Load(serviceName, databaseName string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to decode environment: %w", err)
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = databaseName
	}
	return cfg, nil
}

// Addr retorna o endereço de escuta do servidor HTTP
func (c Config) Addr() string {
	return ":" + c.Port
}

// DSN monta a URL de conexão, priorizando DATABASE_URL
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`
	GinMode  string `env:"GIN_MODE" env-default:"debug"`

	DB    DBConfig
	Redis RedisConfig

	SessionSecret string   `env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`
	CORSOrigins   []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
	OpenAIAPIKey  string   `env:"OPENAI_API_KEY"`

	DefaultLanguage string `env:"DEFAULT_LANGUAGE" env-default:"en"`
	Calendar        string `env:"CALENDAR" env-default:"gregorian"`
	SeedDemoData    bool   `env:"SEED_DEMO_DATA" env-default:"true"`
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"sqlite"`
	DSN      string `env:"DB_DSN"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"3306"`
	User     string `env:"DB_USER" env-default:"taskuser"`
	Password string `env:"DB_PASSWORD" env-default:"taskpassword"`
	Name     string `env:"DB_NAME" env-default:"taskboard"`
}

type RedisConfig struct {
	Host string `env:"REDIS_HOST"`
	Port string `env:"REDIS_PORT" env-default:"6379"`
}

// Addr returns host:port, or "" when redis is not configured
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	c.DB.Driver = strings.ToLower(c.DB.Driver)
	switch c.DB.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DB.Driver)
	}

	c.Calendar = strings.ToLower(c.Calendar)
	if c.Calendar != "gregorian" && c.Calendar != "persian" {
		return fmt.Errorf("unsupported CALENDAR: %s", c.Calendar)
	}
	return nil
}

// IsProduction reports whether cookies should be marked secure
func (c *Config) IsProduction() bool {
	return c.Env == EnvProd || c.GinMode == "release"
}

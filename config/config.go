// config.go - Handles configuration for the project
//
// Values come from (in order of precedence): environment variables, an
// optional YAML file passed with -config, and the env-default tags below.
// A .env file in the working directory is loaded into the environment first.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env   string     `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTP  HTTPServer `yaml:"http_server"`
	DB    Database   `yaml:"db"`
	Auth  Auth       `yaml:"auth"`
	MQTT  MQTT       `yaml:"mqtt"`
	Log   Log        `yaml:"log"`
	CORS  CORS       `yaml:"cors"`
	Admin Admin      `yaml:"admin"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDR" env-default:":5000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	Path   string `yaml:"path" env:"DB_PATH" env-default:"data.db"` // SQLite file
	URL    string `yaml:"url" env:"DATABASE_URL"`                   // Postgres DSN
}

// Auth holds the signing secret. It has no default on purpose: the process
// refuses to start without one.
type Auth struct {
	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"168h"`
	PasswordCost int           `yaml:"password_cost" env:"PASSWORD_COST" env-default:"10"`
	PhoneRegion  string        `yaml:"phone_region" env:"PHONE_REGION" env-default:"US"`
}

type MQTT struct {
	Broker      string `yaml:"broker" env:"MQTT_BROKER"` // empty disables event publishing
	ClientID    string `yaml:"client_id" env:"MQTT_CLIENT_ID" env-default:"go-journal-backend"`
	TopicPrefix string `yaml:"topic_prefix" env:"MQTT_TOPIC_PREFIX" env-default:"mindjournal"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// Admin describes an optional bootstrap administrator account.
type Admin struct {
	Email      string `yaml:"email" env:"ADMIN_EMAIL"`
	Password   string `yaml:"password" env:"ADMIN_PASSWORD"`
	Code       string `yaml:"code" env:"ADMIN_CODE"`
	Department string `yaml:"department" env:"ADMIN_DEPARTMENT" env-default:"Administration"`
}

// Enabled reports whether enough data was given to seed an admin.
func (a Admin) Enabled() bool {
	return a.Email != "" && a.Password != "" && a.Code != ""
}

// Load reads config from the optional file at path and the environment.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: load .env: %w", op, err)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: config file: %w", op, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

// MustLoad is Load for main: it panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Auth.PasswordCost < 4 || c.Auth.PasswordCost > 31 {
		return fmt.Errorf("PASSWORD_COST %d out of range", c.Auth.PasswordCost)
	}
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	case DriverPostgres:
		if c.DB.URL == "" {
			return errors.New("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}

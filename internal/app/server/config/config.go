package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env     string
	DB      DB
	Server  Server
	Logger  Logger
	Session Session
	Users   Users
}

type DB struct {
	Driver      string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type Server struct {
	RunAddress      string        `env:"RUN_ADDRESS"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS"`
	AuthRateLimit   int           `env:"AUTH_RATE_LIMIT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

type Logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type Session struct {
	TTL time.Duration `env:"SESSION_TTL"`
}

type Users struct {
	SeedDemo       bool `env:"SEED_DEMO_USERS"`
	StrictPassword bool `env:"STRICT_PASSWORDS"`
}

// MustLoad загружает конфигурацию сервера, при ошибке завершает процесс
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("failed to load .env: %v", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvLocal)
	v.SetDefault("RUN_ADDRESS", ":8080")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("SEED_DEMO_USERS", true)
	v.SetDefault("STRICT_PASSWORDS", false)

	cfg := &Config{
		Env: v.GetString("APP_ENV"),
		DB: DB{
			Driver:      v.GetString("STORAGE_DRIVER"),
			DatabaseURI: v.GetString("DATABASE_URI"),
			Migrations:  v.GetString("MIGRATIONS_PATH"),
		},
		Server: Server{
			RunAddress:      v.GetString("RUN_ADDRESS"),
			AllowedOrigins:  v.GetStringSlice("ALLOWED_ORIGINS"),
			AuthRateLimit:   v.GetInt("AUTH_RATE_LIMIT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Logger:  Logger{LogLevel: v.GetString("LOG_LEVEL")},
		Session: Session{TTL: v.GetDuration("SESSION_TTL")},
		Users: Users{
			SeedDemo:       v.GetBool("SEED_DEMO_USERS"),
			StrictPassword: v.GetBool("STRICT_PASSWORDS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.DB.DatabaseURI == "" {
			return fmt.Errorf("DATABASE_URI is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.DB.Driver)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultBaseURL   = "http://localhost:8080/api"
	defaultLogLevel  = "info"
	defaultEnv       = "local"
	defaultConfigDir = ".medsync"

	StorageFile    = "file"
	StorageSQLite  = "sqlite"
	StorageKeyring = "keyring"
	StorageRedis   = "redis"
	StorageMemory  = "memory"
)

type Config struct {
	Env       string `mapstructure:"app_env"`
	BaseURL   string `mapstructure:"base_url"`
	LogLevel  string `mapstructure:"log_level"`
	ConfigDir string `mapstructure:"config_dir"`

	// Хранилище сессии
	StorageDriver     string `mapstructure:"storage_driver"`
	StoragePath       string `mapstructure:"storage_path"`
	StoragePassphrase string `mapstructure:"storage_passphrase"`
	RedisAddr         string `mapstructure:"redis_addr"`
	RedisPassword     string `mapstructure:"redis_password"`
	RedisDB           int    `mapstructure:"redis_db"`
	RedisPrefix       string `mapstructure:"redis_prefix"`

	// Монитор состояния сети
	HealthPath          string        `mapstructure:"health_path"`
	StatusInterval      time.Duration `mapstructure:"status_interval"`
	ProbeTimeout        time.Duration `mapstructure:"probe_timeout"`
	ConnectivityEnabled bool          `mapstructure:"connectivity_watch"`

	// Клиент запросов
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	MockLatencyMin    time.Duration `mapstructure:"mock_latency_min"`
	MockLatencyMax    time.Duration `mapstructure:"mock_latency_max"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`

	// Уведомления
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// Восстановление сессии
	RepairInterval   time.Duration `mapstructure:"repair_interval"`
	RecoveryEmail    string        `mapstructure:"recovery_email"`
	RecoveryPassword string        `mapstructure:"recovery_password"`
	PrivilegedRoles  []string      `mapstructure:"privileged_roles"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load собирает конфигурацию из .env, переменных окружения и значений по умолчанию
func Load(v *viper.Viper) (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("BASE_URL", defaultBaseURL)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("STORAGE_DRIVER", StorageFile)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "medsync:session:")
	v.SetDefault("HEALTH_PATH", "/health")
	v.SetDefault("STATUS_INTERVAL", 30*time.Second)
	v.SetDefault("PROBE_TIMEOUT", 3*time.Second)
	v.SetDefault("CONNECTIVITY_WATCH", true)
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("MAX_ATTEMPTS", 2)
	v.SetDefault("RETRY_DELAY", time.Second)
	v.SetDefault("MOCK_LATENCY_MIN", 100*time.Millisecond)
	v.SetDefault("MOCK_LATENCY_MAX", 400*time.Millisecond)
	v.SetDefault("REQUESTS_PER_SECOND", 20.0)
	v.SetDefault("POLL_INTERVAL", 30*time.Second)
	v.SetDefault("REPAIR_INTERVAL", 60*time.Second)
	v.SetDefault("RECOVERY_EMAIL", "admin@hospital.com")
	v.SetDefault("RECOVERY_PASSWORD", "admin123")
	v.SetDefault("PRIVILEGED_ROLES", []string{"admin"})

	// Получаем домашнюю директорию пользователя
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}

	driver := strings.ToLower(v.GetString("STORAGE_DRIVER"))
	storagePath := v.GetString("STORAGE_PATH")
	if storagePath == "" {
		switch driver {
		case StorageSQLite:
			storagePath = filepath.Join(configDir, "session.db")
		default:
			storagePath = filepath.Join(configDir, "session")
		}
	}

	cfg := &Config{
		Env:                 v.GetString("APP_ENV"),
		BaseURL:             strings.TrimRight(v.GetString("BASE_URL"), "/"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		ConfigDir:           configDir,
		StorageDriver:       driver,
		StoragePath:         storagePath,
		StoragePassphrase:   v.GetString("STORAGE_PASSPHRASE"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		RedisPrefix:         v.GetString("REDIS_PREFIX"),
		HealthPath:          v.GetString("HEALTH_PATH"),
		StatusInterval:      v.GetDuration("STATUS_INTERVAL"),
		ProbeTimeout:        v.GetDuration("PROBE_TIMEOUT"),
		ConnectivityEnabled: v.GetBool("CONNECTIVITY_WATCH"),
		RequestTimeout:      v.GetDuration("REQUEST_TIMEOUT"),
		MaxAttempts:         v.GetInt("MAX_ATTEMPTS"),
		RetryDelay:          v.GetDuration("RETRY_DELAY"),
		MockLatencyMin:      v.GetDuration("MOCK_LATENCY_MIN"),
		MockLatencyMax:      v.GetDuration("MOCK_LATENCY_MAX"),
		RequestsPerSecond:   v.GetFloat64("REQUESTS_PER_SECOND"),
		PollInterval:        v.GetDuration("POLL_INTERVAL"),
		RepairInterval:      v.GetDuration("REPAIR_INTERVAL"),
		RecoveryEmail:       v.GetString("RECOVERY_EMAIL"),
		RecoveryPassword:    v.GetString("RECOVERY_PASSWORD"),
		PrivilegedRoles:     v.GetStringSlice("PRIVILEGED_ROLES"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url не может быть пустым")
	}
	switch c.StorageDriver {
	case StorageFile, StorageSQLite, StorageKeyring, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("неизвестный драйвер хранилища: %s", c.StorageDriver)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts должен быть не меньше 1")
	}
	if c.MockLatencyMax < c.MockLatencyMin {
		return fmt.Errorf("mock_latency_max меньше mock_latency_min")
	}
	return nil
}

// SaltPath - файл соли для ключа шифрования хранилища
func (c *Config) SaltPath() string {
	return filepath.Join(c.ConfigDir, "storage.salt")
}

// HealthURL возвращает адрес проверки доступности сервера
func (c *Config) HealthURL() string {
	return c.BaseURL + c.HealthPath
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}

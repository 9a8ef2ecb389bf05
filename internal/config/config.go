package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env      string
	LogLevel string

	Server struct {
		Port     string
		CertFile string
		KeyFile  string
	}

	DB struct {
		Driver          string
		Host            string
		Port            string
		User            string
		Password        string
		Name            string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		RunMigrations   bool
	}

	JWTSecret string

	Transfer struct {
		OutCategoryID int
		InCategoryID  int
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}

	ReconcileSchedule string
}

// Load reads configuration from the environment. Call godotenv.Load first to
// pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Env = getEnv("APP_ENV", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.Server.Port = getEnv("SERVER_PORT", ":8080")
	cfg.Server.CertFile = os.Getenv("CERT_FILE")
	cfg.Server.KeyFile = os.Getenv("KEY_FILE")

	cfg.DB.Driver = getEnv("DB_DRIVER", "mysql")
	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "memory" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want mysql or memory", cfg.DB.Driver)
	}
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "3306")
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = os.Getenv("DB_PASSWORD")
	cfg.DB.Name = getEnv("DB_NAME", "dompet")
	if cfg.DB.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.DB.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.DB.ConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DB.RunMigrations, err = getBool("RUN_MIGRATIONS", true); err != nil {
		return nil, err
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	if cfg.Transfer.OutCategoryID, err = getInt("TRANSFER_OUT_CATEGORY_ID", 11); err != nil {
		return nil, err
	}
	if cfg.Transfer.InCategoryID, err = getInt("TRANSFER_IN_CATEGORY_ID", 12); err != nil {
		return nil, err
	}

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	if cfg.SMTP.Port, err = getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASS")
	cfg.SMTP.From = os.Getenv("SMTP_EMAIL")

	cfg.ReconcileSchedule = getEnv("RECONCILE_SCHEDULE", "*/30 * * * *")

	return cfg, nil
}

func (c *Config) TLSEnabled() bool {
	return c.Server.CertFile != "" && c.Server.KeyFile != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

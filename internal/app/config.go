package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"leave-service/internal/employeeregistry"
	"leave-service/internal/shared/connection"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"

	NotifierOutbox = "outbox"
	NotifierKafka  = "kafka"
	NotifierLog    = "log"
)

type Config struct {
	Port        string
	AppEnv      string
	DB          connection.DBConfig
	AutoMigrate bool

	EmployeeServiceURL     string
	EmployeeServiceTimeout time.Duration
	VerificationCache      string
	VerificationCacheTTL   time.Duration

	RedisAddr    string
	KafkaBroker  string
	NotifierMode string

	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads the process environment. Call godotenv.Load first to
// pick up a .env file.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),
		DB: connection.DBConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		AutoMigrate:        strings.EqualFold(os.Getenv("DB_AUTO_MIGRATE"), "true"),
		EmployeeServiceURL: strings.TrimSpace(os.Getenv("EMPLOYEE_SERVICE_URL")),
		VerificationCache:  strings.ToLower(getEnv("VERIFICATION_CACHE", CacheMemory)),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		NotifierMode:       strings.ToLower(getEnv("NOTIFIER_MODE", NotifierLog)),
		JWTSecret:          os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.EmployeeServiceTimeout, err = getDuration("EMPLOYEE_SERVICE_TIMEOUT", employeeregistry.DefaultRemoteTimeout); err != nil {
		return Config{}, err
	}
	if cfg.VerificationCacheTTL, err = getDuration("VERIFICATION_CACHE_TTL", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 20); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 40); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.VerificationCache {
	case CacheMemory:
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when VERIFICATION_CACHE=redis")
		}
	default:
		return fmt.Errorf("VERIFICATION_CACHE must be %q or %q, got %q", CacheMemory, CacheRedis, c.VerificationCache)
	}

	switch c.NotifierMode {
	case NotifierLog, NotifierOutbox:
	case NotifierKafka:
		if c.KafkaBroker == "" {
			return fmt.Errorf("KAFKA_BROKER is required when NOTIFIER_MODE=kafka")
		}
	default:
		return fmt.Errorf("NOTIFIER_MODE must be one of outbox, kafka, log, got %q", c.NotifierMode)
	}

	if c.EmployeeServiceTimeout <= 0 {
		return fmt.Errorf("EMPLOYEE_SERVICE_TIMEOUT must be positive")
	}
	if c.VerificationCacheTTL < 0 {
		return fmt.Errorf("VERIFICATION_CACHE_TTL must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

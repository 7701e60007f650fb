package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Sync      SyncConfig
	Scheduler SchedulerConfig
	Seed      SeedConfig
	Billing   BillingRates
	Stock     StockConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	TrustedProxies []string
}

type LoggerConfig struct {
	Level string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	LoginPerMinute    int
}

type SyncConfig struct {
	PollInterval time.Duration
}

type SchedulerConfig struct {
	LowStockSpec          string
	RevocationCleanupSpec string
}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// BillingRates are the pricing constants used by the billing calculator.
type BillingRates struct {
	TaxRate          float64
	LaborRatePerHour float64
	WashPrices       map[int]float64
}

type StockConfig struct {
	DefaultMinimum int
}

// DefaultBillingRates: 14% tax, 50 per labor hour, wash tiers interior/exterior/full/chemical.
func DefaultBillingRates() BillingRates {
	return BillingRates{
		TaxRate:          0.14,
		LaborRatePerHour: 50,
		WashPrices: map[int]float64{
			1: 30,
			2: 25,
			3: 50,
			4: 75,
		},
	}
}

func LoadEnv() *Config {
	rates := DefaultBillingRates()
	rates.TaxRate = getEnvFloat("BILLING_TAX_RATE", rates.TaxRate)
	rates.LaborRatePerHour = getEnvFloat("BILLING_LABOR_RATE", rates.LaborRatePerHour)
	rates.WashPrices[1] = getEnvFloat("BILLING_WASH_INTERIOR", rates.WashPrices[1])
	rates.WashPrices[2] = getEnvFloat("BILLING_WASH_EXTERIOR", rates.WashPrices[2])
	rates.WashPrices[3] = getEnvFloat("BILLING_WASH_FULL", rates.WashPrices[3])
	rates.WashPrices[4] = getEnvFloat("BILLING_WASH_CHEMICAL", rates.WashPrices[4])

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			TrustedProxies: getEnvSlice("TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "mysql"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "3306"),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "autoservice"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "autoservice.db"),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "change-me-in-production"),
			Issuer:     getEnv("JWT_ISSUER", "autoservice-app"),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", time.Hour),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 20),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 50),
			LoginPerMinute:    getEnvInt("RATE_LIMIT_LOGIN_PER_MINUTE", 5),
		},
		Sync: SyncConfig{
			PollInterval: getEnvDuration("SYNC_POLL_INTERVAL", 500*time.Millisecond),
		},
		Scheduler: SchedulerConfig{
			LowStockSpec:          getEnv("SCHEDULE_LOW_STOCK", "@every 1h"),
			RevocationCleanupSpec: getEnv("SCHEDULE_TOKEN_CLEANUP", "@every 1h"),
		},
		Seed: SeedConfig{
			AdminUsername: getEnv("SEED_ADMIN_USERNAME", "superadmin"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
		Billing: rates,
		Stock: StockConfig{
			DefaultMinimum: getEnvInt("STOCK_DEFAULT_MINIMUM", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}

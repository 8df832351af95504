package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DB DBConfig

	JWTSecret  string
	SessionTTL time.Duration

	AdminEmail    string
	AdminPassword string

	Storage StorageConfig

	NewsletterURL  string
	NewsletterPort string

	CORSOrigins      []string
	ScheduleInterval time.Duration
}

type DBConfig struct {
	Driver string // sqlite, mysql, postgres
	DSN    string
}

type StorageConfig struct {
	Dir       string
	PublicURL string
	Bucket    string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debug(".env file not found, using process environment")
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	interval, err := time.ParseDuration(getEnv("SCHEDULE_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_INTERVAL: %w", err)
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DBConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:    getEnv("DB_DSN", "restaurant.db"),
		},
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionTTL:    sessionTTL,
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		Storage: StorageConfig{
			Dir:       getEnv("STORAGE_DIR", "public/storage"),
			PublicURL: strings.TrimRight(getEnv("STORAGE_PUBLIC_URL", "/storage"), "/"),
			Bucket:    getEnv("STORAGE_BUCKET", "menu-images"),
		},
		NewsletterURL:    getEnv("NEWSLETTER_URL", "http://localhost:8081/subscribe"),
		NewsletterPort:   getEnv("NEWSLETTER_PORT", "8081"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ScheduleInterval: interval,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	switch c.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.ScheduleInterval <= 0 {
		return fmt.Errorf("SCHEDULE_INTERVAL must be positive")
	}
	// The built-in signing key is for debug and test runs only.
	if c.GinMode == gin.ReleaseMode && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when GIN_MODE=%s", gin.ReleaseMode)
	}
	return nil
}

// InitDB opens the configured database.
func InitDB(cfg DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	utils.InfoLogger.Printf("Connected to %s database", cfg.Driver)
	return db, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

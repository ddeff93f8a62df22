package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type ServerConfig struct {
	Port           string
	BackendURL     string
	FrontendURL    string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver      string // mongo, postgres or memory
	MongoURI    string
	MongoDBName string
	PostgresDSN string
	SeedFile    string
}

type AuthConfig struct {
	JWTSecret     string
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration
	AdminEmail    string
	AdminPassword string
}

type PayUConfig struct {
	MerchantKey string
	Salt        string
	PaymentURL  string
}

func (p PayUConfig) Enabled() bool {
	return p.MerchantKey != "" || p.Salt != ""
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

type OutboxConfig struct {
	Queue         string // memory or redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Workers       int
	MaxAttempts   int
	Backoff       time.Duration
}

type LoggerConfig struct {
	Mode       string
	FileEnable bool
	Filename   string
}

type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	PayU     PayUConfig
	Mail     MailConfig
	Outbox   OutboxConfig
	Logger   LoggerConfig
}

// Load reads .env (when present) and the process environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Server: ServerConfig{
			Port:           getEnv("PORT", "4000"),
			BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:4000"), "/"),
			FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", "mongo")),
			MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDBName: getEnv("MONGODB_DB", "e-commerce"),
			PostgresDSN: os.Getenv("DATABASE_URL"),
			SeedFile:    os.Getenv("SEED_PRODUCTS_FILE"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			UserTokenTTL:  cast.ToDuration(getEnv("USER_TOKEN_TTL", "168h")),
			AdminTokenTTL: cast.ToDuration(getEnv("ADMIN_TOKEN_TTL", "12h")),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		PayU: PayUConfig{
			MerchantKey: os.Getenv("PAYU_MERCHANT_KEY"),
			Salt:        os.Getenv("PAYU_SALT"),
			PaymentURL:  getEnv("PAYU_PAYMENT_URL", "https://secure.payu.in/_payment"),
		},
		Mail: MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     cast.ToInt(getEnv("SMTP_PORT", "587")),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", os.Getenv("SMTP_USER")),
		},
		Outbox: OutboxConfig{
			Queue:         strings.ToLower(getEnv("OUTBOX_QUEUE", "memory")),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       cast.ToInt(getEnv("REDIS_DB", "0")),
			Workers:       cast.ToInt(getEnv("OUTBOX_WORKERS", "4")),
			MaxAttempts:   cast.ToInt(getEnv("OUTBOX_MAX_ATTEMPTS", "5")),
			Backoff:       cast.ToDuration(getEnv("OUTBOX_BACKOFF", "30s")),
		},
		Logger: LoggerConfig{
			Mode:       getEnv("LOG_MODE", "development"),
			FileEnable: cast.ToBool(getEnv("LOG_FILE_ENABLE", "false")),
			Filename:   getEnv("LOG_FILE", "logs/hashira.log"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.PayU.Enabled() && (c.PayU.MerchantKey == "" || c.PayU.Salt == "") {
		return errors.New("PAYU_MERCHANT_KEY and PAYU_SALT must be set together")
	}
	switch c.Database.Driver {
	case "mongo", "memory":
	case "postgres":
		if c.Database.PostgresDSN == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return errors.New("unknown DB_DRIVER " + c.Database.Driver)
	}
	switch c.Outbox.Queue {
	case "memory", "redis":
	default:
		return errors.New("unknown OUTBOX_QUEUE " + c.Outbox.Queue)
	}
	if c.Outbox.Workers <= 0 {
		c.Outbox.Workers = 1
	}
	if c.Outbox.MaxAttempts <= 0 {
		c.Outbox.MaxAttempts = 1
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Gateway   GatewayConfig
	Payment   PaymentConfig
	Webhook   WebhookConfig
	Breaker   BreakerConfig
	JWT       JWTConfig
	Admin     AdminConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type RedisConfig struct {
	URL        string
	SessionTTL time.Duration
}

// GatewayConfig configures the hosted-checkout payment gateway client
type GatewayConfig struct {
	BaseURL     string
	ServerKey   string
	ClientKey   string
	CallTimeout time.Duration
	MaxRetries  int
	RetryBase   time.Duration
}

// PaymentConfig holds pricing policy knobs. Rates are in basis points so all
// money math stays in integers.
type PaymentConfig struct {
	TaxRateBp          int64 // PPN, default 1100 (11%)
	DepositPercentBp   int64 // deposit share of grand total, default 5000 (50%)
	StrictServiceTypes bool  // reject unknown service labels instead of defaulting to website
	MaxPaymentRetries  int   // user-facing retry cap per checkout session
}

// WebhookConfig guards the notification ingress endpoint
type WebhookConfig struct {
	MaxBodyBytes   int64
	AllowedOrigins []string
	MaxRetries     int
	RetryBase      time.Duration
}

type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	ResetTimeout     time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// AdminConfig is the single admin panel credential. Login is disabled when
// the password is empty.
type AdminConfig struct {
	Username string
	Password string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "checkout-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "checkout")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.SetDefault("GATEWAY_BASE_URL", "https://app.sandbox.midtrans.com")
	viper.SetDefault("GATEWAY_SERVER_KEY", "")
	viper.SetDefault("GATEWAY_CLIENT_KEY", "")
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 15)
	viper.SetDefault("GATEWAY_MAX_RETRIES", 2)
	viper.SetDefault("GATEWAY_RETRY_BASE_MS", 1000)
	viper.SetDefault("TAX_RATE_BP", 1100)
	viper.SetDefault("DEPOSIT_PERCENT_BP", 5000)
	viper.SetDefault("ORDER_STRICT_SERVICE_TYPES", false)
	viper.SetDefault("MAX_PAYMENT_RETRIES", 3)
	viper.SetDefault("WEBHOOK_MAX_BODY_BYTES", 65536)
	viper.SetDefault("WEBHOOK_ALLOWED_ORIGINS", []string{})
	viper.SetDefault("WEBHOOK_MAX_RETRIES", 3)
	viper.SetDefault("WEBHOOK_RETRY_BASE_MS", 500)
	viper.SetDefault("BREAKER_FAILURE_THRESHOLD", 5)
	viper.SetDefault("BREAKER_SUCCESS_THRESHOLD", 1)
	viper.SetDefault("BREAKER_RESET_TIMEOUT_SECONDS", 30)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_FROM_NAME", "Kiramedia")
	viper.SetDefault("MAIL_FROM_EMAIL", "")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			URL:        viper.GetString("REDIS_URL"),
			SessionTTL: time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		},
		Gateway: GatewayConfig{
			BaseURL:     viper.GetString("GATEWAY_BASE_URL"),
			ServerKey:   viper.GetString("GATEWAY_SERVER_KEY"),
			ClientKey:   viper.GetString("GATEWAY_CLIENT_KEY"),
			CallTimeout: time.Duration(viper.GetInt("GATEWAY_TIMEOUT_SECONDS")) * time.Second,
			MaxRetries:  viper.GetInt("GATEWAY_MAX_RETRIES"),
			RetryBase:   time.Duration(viper.GetInt("GATEWAY_RETRY_BASE_MS")) * time.Millisecond,
		},
		Payment: PaymentConfig{
			TaxRateBp:          viper.GetInt64("TAX_RATE_BP"),
			DepositPercentBp:   viper.GetInt64("DEPOSIT_PERCENT_BP"),
			StrictServiceTypes: viper.GetBool("ORDER_STRICT_SERVICE_TYPES"),
			MaxPaymentRetries:  viper.GetInt("MAX_PAYMENT_RETRIES"),
		},
		Webhook: WebhookConfig{
			MaxBodyBytes:   viper.GetInt64("WEBHOOK_MAX_BODY_BYTES"),
			AllowedOrigins: viper.GetStringSlice("WEBHOOK_ALLOWED_ORIGINS"),
			MaxRetries:     viper.GetInt("WEBHOOK_MAX_RETRIES"),
			RetryBase:      time.Duration(viper.GetInt("WEBHOOK_RETRY_BASE_MS")) * time.Millisecond,
		},
		Breaker: BreakerConfig{
			FailureThreshold: viper.GetInt("BREAKER_FAILURE_THRESHOLD"),
			SuccessThreshold: viper.GetInt("BREAKER_SUCCESS_THRESHOLD"),
			ResetTimeout:     time.Duration(viper.GetInt("BREAKER_RESET_TIMEOUT_SECONDS")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Admin: AdminConfig{
			Username: viper.GetString("ADMIN_USERNAME"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("MAIL_FROM_NAME"),
			FromEmail:    viper.GetString("MAIL_FROM_EMAIL"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

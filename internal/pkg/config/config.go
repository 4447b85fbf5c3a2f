package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, retry caps, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	Provider  ProviderConfig
	Retry     RetryConfig
	Breaker   BreakerConfig
	Outbox    OutboxConfig
	Code      CodeConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

// ProviderConfig covers both outbound dependencies: the payment provider and
// the supplier booking API.
type ProviderConfig struct {
	PaymentBaseURL string        `envconfig:"PAYMENT_API_BASE_URL" default:"https://payments.example.com"`
	PaymentAPIKey  string        `envconfig:"PAYMENT_API_KEY" default:""`
	BookingBaseURL string        `envconfig:"PROVIDER_API_BASE_URL" default:"https://provider.example.com"`
	BookingAPIKey  string        `envconfig:"PROVIDER_API_KEY" default:""`
	Timeout        time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
}

type RetryConfig struct {
	MaxRetries    int           `envconfig:"RETRY_MAX_RETRIES" default:"3"`
	BaseDelay     time.Duration `envconfig:"RETRY_BASE_DELAY" default:"500ms"`
	BackoffFactor float64       `envconfig:"RETRY_BACKOFF_FACTOR" default:"2.0"`
	MaxDelay      time.Duration `envconfig:"RETRY_MAX_DELAY" default:"60s"`
}

type BreakerConfig struct {
	FailureThreshold int           `envconfig:"BREAKER_FAILURE_THRESHOLD" default:"5"`
	RecoveryTimeout  time.Duration `envconfig:"BREAKER_RECOVERY_TIMEOUT" default:"30s"`
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"20"`
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
}

type CodeConfig struct {
	MaxRetries int `envconfig:"CODE_MAX_RETRIES" default:"1000"`
}

type RateLimitConfig struct {
	RequestsPerMinute     int `envconfig:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
	ReservationsPerMinute int `envconfig:"RATE_LIMIT_RESERVATIONS_PER_MINUTE" default:"30"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Provider: ProviderConfig{
			PaymentBaseURL: "http://localhost:9901",
			BookingBaseURL: "http://localhost:9902",
			Timeout:        2 * time.Second,
		},
		Retry: RetryConfig{
			MaxRetries:    1,
			BaseDelay:     time.Millisecond,
			BackoffFactor: 2.0,
			MaxDelay:      10 * time.Millisecond,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 3,
			RecoveryTimeout:  time.Second,
		},
		Outbox: OutboxConfig{
			BatchSize:    20,
			PollInterval: 50 * time.Millisecond,
		},
		Code: CodeConfig{
			MaxRetries: 1000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute:     120,
			ReservationsPerMinute: 30,
		},
	}
}

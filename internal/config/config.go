package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the full service configuration, loaded from environment
// variables with sane local-development defaults.
type Config struct {
	// HTTP server
	HTTPPort       string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"120s"`

	// Logging
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// AI backend
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"ollama"` // "ollama" or "openai"
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"http://localhost:11434"`
	AIModel      string        `envconfig:"AI_MODEL" default:"llama3.1"`
	AIAPIKey     string        `envconfig:"AI_API_KEY"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AIPullModel  bool          `envconfig:"AI_PULL_MODEL" default:"true"`

	// Retry budgets per operation. Each budget bounds the number of
	// generation attempts before the loop reports exhaustion.
	TranslateMaxAttempts int `envconfig:"TRANSLATE_MAX_ATTEMPTS" default:"3"`
	SummarizeMaxAttempts int `envconfig:"SUMMARIZE_MAX_ATTEMPTS" default:"5"`
	VerifyMaxAttempts    int `envconfig:"VERIFY_MAX_ATTEMPTS" default:"5"`
	BatchMaxAttempts     int `envconfig:"BATCH_MAX_ATTEMPTS" default:"3"`
	BatchChunkSize       int `envconfig:"BATCH_CHUNK_SIZE" default:"50"`

	// ELI legal document API
	ELIBaseURL string        `envconfig:"ELI_BASE_URL" default:"https://api.sejm.gov.pl/eli"`
	ELITimeout time.Duration `envconfig:"ELI_TIMEOUT" default:"30s"`

	// PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string        `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName        string        `envconfig:"DB_NAME" default:"docintel_db"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`

	// Redis response cache. Caching is disabled when the address is empty.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"1h"`
}

// GetDSN returns the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// MaskedDSN returns the DSN with the password hidden, for logging.
func (c *Config) MaskedDSN() string {
	dsn := c.GetDSN()
	parts := strings.Split(dsn, "@")
	if len(parts) != 2 {
		return "[invalid dsn format]"
	}
	userInfo := strings.Split(parts[0], ":")
	if len(userInfo) >= 2 {
		userInfo[len(userInfo)-1] = "********"
	}
	return strings.Join(userInfo, ":") + "@" + parts[1]
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.AIClientType == "openai" && cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY must be set when AI_CLIENT_TYPE is 'openai'")
	}
	return &cfg, nil
}

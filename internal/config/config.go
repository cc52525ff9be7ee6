package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`
	APIPrefix   string `envconfig:"API_PREFIX" default:"/api/v1"`

	// Хранилище файлов и метаданных
	StorageDir     string `envconfig:"STORAGE_DIR" default:"presentations"`
	StoreBackend   string `envconfig:"STORE_BACKEND" default:"memory"` // memory | redis
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	RedisKeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"slides:"`
	// Секретное поле БЕЗ envconfig тега
	RedisPassword string

	// Настройки AI
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"gemini"` // gemini | openai | ollama
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	AIModel      string        `envconfig:"AI_MODEL" default:"gemini-1.5-flash-latest"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	// Секретное поле БЕЗ envconfig тега
	AIAPIKey string

	// Rate limiting
	RateLimit       int           `envconfig:"RATE_LIMIT" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1h"`
	RateLimitScope  string        `envconfig:"RATE_LIMIT_SCOPE" default:"client"` // global | route | client

	// Presentation limits
	MaxSlides     int `envconfig:"MAX_SLIDES" default:"20"`
	DefaultSlides int `envconfig:"DEFAULT_SLIDES" default:"10"`

	// Retention (0 disables)
	RetentionTTL           time.Duration `envconfig:"RETENTION_TTL" default:"0"`
	RetentionSweepInterval time.Duration `envconfig:"RETENTION_SWEEP_INTERVAL" default:"10m"`
	MaxPresentations       int           `envconfig:"MAX_PRESENTATIONS" default:"0"`

	// CORS Settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Events (empty URL disables publishing)
	RabbitMQURL string `envconfig:"RABBITMQ_URL" default:""`
	EventsQueue string `envconfig:"EVENTS_QUEUE" default:"presentation_events"`

	// SecretsDir is where docker secrets are mounted.
	SecretsDir string `envconfig:"SECRETS_DIR" default:"/run/secrets"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// Validate checks cross-field constraints that envconfig cannot express.
func (c *Config) Validate() error {
	if c.MaxSlides < 1 {
		return fmt.Errorf("MAX_SLIDES must be positive, got %d", c.MaxSlides)
	}
	if c.DefaultSlides < 1 || c.DefaultSlides > c.MaxSlides {
		return fmt.Errorf("DEFAULT_SLIDES must be within [1, %d], got %d", c.MaxSlides, c.DefaultSlides)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.RateLimitWindow)
	}
	switch c.RateLimitScope {
	case "global", "route", "client":
	default:
		return fmt.Errorf("unknown RATE_LIMIT_SCOPE '%s'", c.RateLimitScope)
	}
	switch c.StoreBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown STORE_BACKEND '%s'", c.StoreBackend)
	}
	if c.MaxPresentations < 0 {
		return fmt.Errorf("MAX_PRESENTATIONS must not be negative, got %d", c.MaxPresentations)
	}
	return nil
}

// LoadConfig loads configuration from an optional .env file, environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			} else {
				log.Printf("Loaded configuration from %s", envFilePath)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	// Загружаем НЕсекретные переменные из окружения
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Ключ AI обязателен для всех бэкендов, кроме локальной ollama
	apiKey, err := ReadSecret(cfg.SecretsDir, "ai_api_key", "AI_API_KEY")
	if err != nil {
		if strings.ToLower(cfg.AIClientType) != "ollama" {
			return nil, err
		}
		log.Printf("AI API key not provided, assuming ollama needs none: %v", err)
	}
	cfg.AIAPIKey = apiKey

	// Загружаем НЕОБЯЗАТЕЛЬНЫЕ секреты (например, пароль Redis)
	if redisPass, err := ReadSecret(cfg.SecretsDir, "redis_password", "REDIS_PASSWORD"); err == nil {
		cfg.RedisPassword = redisPass
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("Configuration loaded successfully.")
	return &cfg, nil
}

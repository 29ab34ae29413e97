package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Media upload backends
const (
	MediaBackendMinIO      = "minio"
	MediaBackendAssemblyAI = "assemblyai"
)

// Run store backends
const (
	RunStoreMemory = "memory"
	RunStoreRedis  = "redis"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	AssemblyAI AssemblyAIConfig
	Completion CompletionConfig
	Storage    StorageConfig
	RunStore   RunStoreConfig
	Redis      RedisConfig
	Pipeline   PipelineConfig
	Log        LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"` // seconds
	MaxUploadMB     int64    `envconfig:"MAX_UPLOAD_MB" default:"500"`
}

// AssemblyAIConfig holds transcription provider configuration
type AssemblyAIConfig struct {
	APIKey           string        `envconfig:"ASSEMBLYAI_API_KEY"`
	BaseURL          string        `envconfig:"ASSEMBLYAI_BASE_URL" default:"https://api.assemblyai.com"`
	SpeakersExpected int64         `envconfig:"ASSEMBLYAI_SPEAKERS_EXPECTED" default:"4"`
	PollInterval     time.Duration `envconfig:"POLL_INTERVAL" default:"3s"`
	PollMaxAttempts  uint64        `envconfig:"POLL_MAX_ATTEMPTS" default:"0"` // 0 = unbounded
	PollTimeout      time.Duration `envconfig:"POLL_TIMEOUT" default:"0"`      // 0 = none
}

// CompletionConfig holds the OpenAI-compatible completion provider configuration
type CompletionConfig struct {
	APIKey  string        `envconfig:"OPENROUTER_API_KEY"`
	BaseURL string        `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	Model   string        `envconfig:"OPENROUTER_MODEL" default:"deepseek/deepseek-r1-distill-llama-70b:free"`
	Referer string        `envconfig:"OPENROUTER_REFERER" default:"http://localhost:8080"`
	Title   string        `envconfig:"OPENROUTER_TITLE" default:"Actionify Meeting Analyzer"`
	Timeout time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"60s"`
}

// StorageConfig holds media upload configuration
type StorageConfig struct {
	Backend         string        `envconfig:"MEDIA_BACKEND" default:"minio"` // "minio" or "assemblyai"
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"meeting-analysis"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicEndpoint  string        `envconfig:"STORAGE_PUBLIC_ENDPOINT"`
	PresignExpiry   time.Duration `envconfig:"PRESIGN_EXPIRY" default:"1h"`
}

// RunStoreConfig selects where analysis runs live while the session lasts
type RunStoreConfig struct {
	Backend string        `envconfig:"RUN_STORE" default:"memory"` // "memory" or "redis"
	TTL     time.Duration `envconfig:"RUN_TTL" default:"2h"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// PipelineConfig bounds a single analysis run
type PipelineConfig struct {
	Timeout        time.Duration `envconfig:"PIPELINE_TIMEOUT" default:"0"` // 0 = none
	MaxConcurrency int           `envconfig:"MAX_CONCURRENT_RUNS" default:"2"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}
	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration. Provider keys are checked
// separately, when the provider is about to be used.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case MediaBackendMinIO, MediaBackendAssemblyAI:
	default:
		return fmt.Errorf("MEDIA_BACKEND must be %q or %q, got %q", MediaBackendMinIO, MediaBackendAssemblyAI, c.Storage.Backend)
	}
	switch c.RunStore.Backend {
	case RunStoreMemory, RunStoreRedis:
	default:
		return fmt.Errorf("RUN_STORE must be %q or %q, got %q", RunStoreMemory, RunStoreRedis, c.RunStore.Backend)
	}
	if c.AssemblyAI.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.Pipeline.MaxConcurrency < 1 {
		return fmt.Errorf("MAX_CONCURRENT_RUNS must be at least 1")
	}
	if c.AssemblyAI.PollTimeout < 0 || c.Pipeline.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// RequireTranscription checks the credentials needed for file inputs.
func (c *Config) RequireTranscription() error {
	if c.AssemblyAI.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	return nil
}

// RequireCompletion checks the credentials needed for content and sentiment analysis.
func (c *Config) RequireCompletion() error {
	if c.Completion.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	return nil
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

package app

import (
	"strings"
	"time"

	"github.com/yungbote/mentor-backend/internal/platform/config"
)

// Config is decoded from the environment (optionally seeded from .env).
type Config struct {
	Port               string        `envconfig:"PORT" default:"8000"`
	LogMode            string        `envconfig:"LOG_MODE" default:"development"`
	LogLevel           string        `envconfig:"LOG_LEVEL"`
	LogRedaction       bool          `envconfig:"LOG_REDACTION_ENABLED" default:"true"`
	LogHashSalt        string        `envconfig:"LOG_HASH_SALT"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	FirebaseProjectID string `envconfig:"FIREBASE_PROJECT_ID"`

	StoreDriver        string `envconfig:"STORE_DRIVER" default:"firestore"`
	FirestoreProjectID string `envconfig:"FIRESTORE_PROJECT_ID"`
	DatabaseURL        string `envconfig:"DATABASE_URL"`
	SQLitePath         string `envconfig:"SQLITE_PATH" default:"mentor.db"`

	RedisAddr          string        `envconfig:"REDIS_ADDR"`
	RedisPassword      string        `envconfig:"REDIS_PASSWORD"`
	RedisDB            int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SessionMaxMessages int           `envconfig:"SESSION_MAX_MESSAGES" default:"40"`
	MemoryMaxItems     int           `envconfig:"MEMORY_MAX_ITEMS" default:"50"`

	AgentProvider string `envconfig:"AGENT_PROVIDER" default:"gemini"`
	GoogleAPIKey  string `envconfig:"GOOGLE_API_KEY"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	ReportBucket        string `envconfig:"REPORT_BUCKET"`
	ReportPublicBaseURL string `envconfig:"REPORT_PUBLIC_BASE_URL"`
	StorageEmulatorHost string `envconfig:"STORAGE_EMULATOR_HOST"`

	OtelEnabled     bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OtelServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"mentor-backend"`
	OtelEnvironment string `envconfig:"OTEL_ENVIRONMENT" default:"development"`
	OtelVersion     string `envconfig:"OTEL_SERVICE_VERSION"`
	OtelEndpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string `envconfig:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`
	OtelSampleRatio string `envconfig:"OTEL_SAMPLE_RATIO" default:"0.1"`
}

func LoadConfig() (*Config, error) {
	cfg, err := config.New[Config]("")
	if err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.AgentProvider = strings.ToLower(strings.TrimSpace(cfg.AgentProvider))
	return cfg, nil
}

func (c *Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

package config

import (
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	// Storage
	StoreBackend string // memory, file, sqlite, postgres, redis
	StoreDir     string // file backend root
	DatabaseURL  string // postgres backend
	SQLitePath   string // sqlite backend
	RedisURL     string // redis backend
	DefaultSlot  string
	// Ingestion
	SnippetsFile   string // optional YAML snippet catalog
	HTMLPolicy     string // none, ugc, strict
	MarkdownMode   string // raw, html
	MaxUploadBytes int64
	// Sessions
	MaxSessionsPerOwner int
	// Auth (disabled when empty)
	AuthJWKSURL string
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
		TablePrefix: getTablePrefix(env),
		// Storage
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreFile)),
		StoreDir:     getEnv("STORE_DIR", "./data"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/editor.db"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DefaultSlot:  getEnv("DEFAULT_SLOT", DefaultSlotName),
		// Ingestion
		SnippetsFile:   getEnv("SNIPPETS_FILE", ""),
		HTMLPolicy:     strings.ToLower(getEnv("HTML_POLICY", HTMLPolicyNone)),
		MarkdownMode:   strings.ToLower(getEnv("MARKDOWN_MODE", MarkdownRaw)),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		// Sessions
		MaxSessionsPerOwner: int(getEnvInt64("MAX_SESSIONS_PER_OWNER", DefaultMaxSessionsPerOwner)),
		// Auth
		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: int(getEnvInt64("LOG_MAX_FILES", 10)),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks option values that select behaviour.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.StoreBackend,
			validation.Required,
			validation.In(StoreMemory, StoreFile, StoreSQLite, StorePostgres, StoreRedis),
		),
		validation.Field(&c.DatabaseURL,
			validation.When(c.StoreBackend == StorePostgres, validation.Required),
		),
		validation.Field(&c.StoreDir,
			validation.When(c.StoreBackend == StoreFile, validation.Required),
		),
		validation.Field(&c.SQLitePath,
			validation.When(c.StoreBackend == StoreSQLite, validation.Required),
		),
		validation.Field(&c.RedisURL,
			validation.When(c.StoreBackend == StoreRedis, validation.Required),
		),
		validation.Field(&c.DefaultSlot,
			validation.Required,
			validation.Length(1, MaxSlotNameLength),
		),
		validation.Field(&c.HTMLPolicy, validation.In(HTMLPolicyNone, HTMLPolicyUGC, HTMLPolicyStrict)),
		validation.Field(&c.MarkdownMode, validation.In(MarkdownRaw, MarkdownHTML)),
	)
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table/key prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

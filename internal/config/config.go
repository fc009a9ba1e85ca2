package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultBatchSize    = 50
)

const (
	ContinuationQueue = "queue"
	ContinuationRun   = "run"
)

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"kbingest"`
	DBPass string `envconfig:"DB_PASS" default:"password"`
	DBName string `envconfig:"DB_NAME" default:"kbingest"`

	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	DoclingURL string `envconfig:"DOCLING_URL" default:"http://docling:8000"`
	NSQLookupd string `envconfig:"NSQ_LOOKUPD" default:"nsqlookupd:4161"`
	NSQDHost   string `envconfig:"NSQD_HOST" default:"nsqd:4150"`
	NSQDHTTP   string `envconfig:"NSQD_HTTP" default:"nsqd:4151"`

	// Chunking is process-wide, never per-message. Changing these mid-run
	// shifts chunk boundaries and corrupts doc-id accounting for files that
	// are partway through ingestion.
	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"50"`

	// BatchSize is read separately in Load so a malformed value falls back
	// to the default instead of failing startup.
	BatchSize int `ignored:"true"`

	// MaxRetries is the number of redeliveries allowed before a message is
	// terminally failed. The first delivery does not count as a retry.
	MaxRetries int `envconfig:"INGEST_MAX_RETRIES" default:"2"`

	// ContinuationMode picks how follow-up batches travel: "queue"
	// re-enqueues onto the ingestion topic, "run" persists a pending run
	// row that the dispatcher publishes.
	ContinuationMode           string `envconfig:"CONTINUATION_MODE" default:"queue"`
	RunDispatchIntervalSeconds int    `envconfig:"RUN_DISPATCH_INTERVAL_SECONDS" default:"5"`

	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	MigrationPath string `envconfig:"MIGRATION_PATH" default:"file://migrations"`

	ServerPort int `envconfig:"SERVER_PORT" default:"8081"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Try loading .env from current dir and repo root
	// Ignore errors, as env vars might be set in the shell
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	rootEnv := filepath.Join(cwd, "../.env")
	_ = godotenv.Load(rootEnv)

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	cfg.BatchSize = batchSizeFromEnv(os.Getenv("INGEST_BATCH_SIZE"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// batchSizeFromEnv parses the batch size leniently: a missing, malformed, or
// non-positive value yields the default rather than an error, so a bad
// deploy-time setting cannot take the whole pipeline down.
func batchSizeFromEnv(raw string) int {
	if raw == "" {
		return DefaultBatchSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultBatchSize
	}
	return n
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.ContinuationMode != ContinuationQueue && c.ContinuationMode != ContinuationRun {
		return fmt.Errorf("unknown CONTINUATION_MODE %q", c.ContinuationMode)
	}
	return nil
}

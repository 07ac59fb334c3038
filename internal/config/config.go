// Package config loads PolicyPulse configuration from a TOML file with
// environment overrides. A .env file in the working directory is loaded
// first, so secrets like the Groq API key never need to live in the config
// file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// Default configuration values.
const (
	DefaultCacheTTLSec     = 120
	DefaultPollIntervalSec = 60
	DefaultLogLevel        = "info"
)

// Config is the full PolicyPulse configuration.
type Config struct {
	// DataDir holds the SQLite database. Empty means ~/.policypulse/data.
	DataDir string `toml:"data_dir"`

	// InboxDir is where candidate CSVs land. Empty means <DataDir>/inbox.
	InboxDir string `toml:"inbox_dir"`

	// DoneDir is where ingested CSVs move. Empty means <DataDir>/done.
	DoneDir string `toml:"done_dir"`

	// LogLevel is the zerolog level name.
	LogLevel string `toml:"log_level"`

	Retrieval RetrievalConfig `toml:"retrieval"`
	Ingest    IngestConfig    `toml:"ingest"`
	Groq      GroqConfig      `toml:"groq"`
}

// RetrievalConfig tunes keyword retrieval.
type RetrievalConfig struct {
	// DefaultTopK is the result bound when the caller supplies none.
	DefaultTopK int `toml:"default_topk"`

	// MaxKeywords caps the extracted term count.
	MaxKeywords int `toml:"max_keywords"`

	// CacheTTLSec bounds how long cached results are served.
	CacheTTLSec int `toml:"cache_ttl_sec"`
}

// IngestConfig tunes the ingestion scheduler.
type IngestConfig struct {
	// PollIntervalSec is the inbox scan interval.
	PollIntervalSec int `toml:"poll_interval_sec"`

	// Watch wakes the scheduler on inbox filesystem events between polls.
	Watch bool `toml:"watch"`

	// ChunkSize and ChunkOverlap set extraction chunk geometry, in
	// characters.
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// GroqConfig configures answer generation. An empty APIKey disables it.
type GroqConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		Retrieval: RetrievalConfig{
			DefaultTopK: domain.DefaultTopK,
			MaxKeywords: domain.DefaultMaxKeywords,
			CacheTTLSec: DefaultCacheTTLSec,
		},
		Ingest: IngestConfig{
			PollIntervalSec: DefaultPollIntervalSec,
			ChunkSize:       domain.DefaultChunkSize,
			ChunkOverlap:    domain.DefaultChunkOverlap,
		},
	}
}

// Load reads configuration in precedence order: defaults, then the TOML
// file at path (missing file is fine), then environment variables. A .env
// file in the working directory is folded into the environment first.
func Load(path string) (Config, error) {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = defaultConfigPath()
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "policypulse.toml"
	}
	return filepath.Join(home, ".policypulse", "config.toml")
}

// applyEnv folds environment overrides into the config.
func (c *Config) applyEnv() {
	setString(&c.DataDir, "POLICYPULSE_DATA_DIR")
	setString(&c.InboxDir, "POLICYPULSE_INBOX_DIR")
	setString(&c.DoneDir, "POLICYPULSE_DONE_DIR")
	setString(&c.LogLevel, "POLICYPULSE_LOG_LEVEL")

	setInt(&c.Retrieval.DefaultTopK, "POLICYPULSE_DEFAULT_TOPK")
	setInt(&c.Retrieval.MaxKeywords, "POLICYPULSE_MAX_KEYWORDS")
	setInt(&c.Retrieval.CacheTTLSec, "POLICYPULSE_CACHE_TTL_SEC")

	setInt(&c.Ingest.PollIntervalSec, "INGEST_POLL_INTERVAL_SEC")
	setBool(&c.Ingest.Watch, "INGEST_WATCH")

	setString(&c.Groq.APIKey, "GROQ_API_KEY")
	setString(&c.Groq.BaseURL, "GROQ_BASE_URL")
	setString(&c.Groq.Model, "GROQ_MODEL")
}

// applyDefaults fills any holes left by the file and environment.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Retrieval.DefaultTopK <= 0 {
		c.Retrieval.DefaultTopK = domain.DefaultTopK
	}
	if c.Retrieval.MaxKeywords <= 0 {
		c.Retrieval.MaxKeywords = domain.DefaultMaxKeywords
	}
	if c.Retrieval.CacheTTLSec <= 0 {
		c.Retrieval.CacheTTLSec = DefaultCacheTTLSec
	}
	if c.Ingest.PollIntervalSec <= 0 {
		c.Ingest.PollIntervalSec = DefaultPollIntervalSec
	}
	if c.Ingest.ChunkSize <= 0 {
		c.Ingest.ChunkSize = domain.DefaultChunkSize
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		c.Ingest.ChunkOverlap = domain.DefaultChunkOverlap
	}
}

// CacheTTL returns the retrieval cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Retrieval.CacheTTLSec) * time.Second
}

// PollInterval returns the inbox scan interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Ingest.PollIntervalSec) * time.Second
}

// ResolveDirs returns the inbox and done directories, defaulting under the
// data directory when unset.
func (c Config) ResolveDirs() (inbox, done string) {
	base := c.DataDir
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil {
			base = filepath.Join(home, ".policypulse", "data")
		} else {
			base = "."
		}
	}
	inbox = c.InboxDir
	if inbox == "" {
		inbox = filepath.Join(base, "inbox")
	}
	done = c.DoneDir
	if done == "" {
		done = filepath.Join(base, "done")
	}
	return inbox, done
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	Documents   []DocumentConfig `toml:"documents" validate:"min=1,dive"`
	Ingest      IngestConfig     `toml:"ingest"`
	Embedding   EmbeddingConfig  `toml:"embedding"`
	LLM         LLMConfig        `toml:"llm"`
	Retrieval   RetrievalConfig  `toml:"retrieval"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// DocumentConfig is one startup document: a named PDF fetched over HTTP.
type DocumentConfig struct {
	Name     string `toml:"name" validate:"required"`
	Language string `toml:"language" validate:"required"`
	URL      string `toml:"url" validate:"required,url"`
}

// IngestConfig controls download and chunking behavior.
type IngestConfig struct {
	ChunkSizeTokens    int    `toml:"chunk_size_tokens" validate:"gt=0"`
	ChunkOverlapTokens int    `toml:"chunk_overlap_tokens" validate:"gte=0"`
	CharsPerToken      int    `toml:"chars_per_token" validate:"gt=0"`
	DownloadTimeout    string `toml:"download_timeout"` // duration string, e.g. "60s"
}

// WindowChars returns the chunk window size in characters.
func (c IngestConfig) WindowChars() int {
	return c.ChunkSizeTokens * c.CharsPerToken
}

// StrideChars returns the distance between consecutive window starts.
func (c IngestConfig) StrideChars() int {
	stride := (c.ChunkSizeTokens - c.ChunkOverlapTokens) * c.CharsPerToken
	if stride <= 0 {
		stride = c.WindowChars()
	}
	return stride
}

// DownloadTimeoutDuration parses DownloadTimeout with a 60s default.
func (c IngestConfig) DownloadTimeoutDuration() time.Duration {
	return parseDurationOr(c.DownloadTimeout, 60*time.Second)
}

// EmbeddingConfig contains embedding model and batching configuration.
type EmbeddingConfig struct {
	Model         string `toml:"model" validate:"required"`
	Dimension     int    `toml:"dimension" validate:"gt=0"`
	BatchSize     int    `toml:"batch_size" validate:"gt=0"`
	BatchInterval string `toml:"batch_interval"` // pacing delay between batches, e.g. "500ms"
}

// BatchIntervalDuration parses BatchInterval with a 500ms default.
func (c EmbeddingConfig) BatchIntervalDuration() time.Duration {
	return parseDurationOr(c.BatchInterval, 500*time.Millisecond)
}

// LLMConfig contains the generation candidate chain. Candidates are model
// identifiers tried in order until one succeeds; provider is detected via
// the model name ("gemini-*" or "claude-*", optionally prefixed).
type LLMConfig struct {
	Candidates  []string `toml:"candidates" validate:"min=1"`
	MaxTokens   int      `toml:"max_tokens" validate:"gt=0"`
	Temperature float32  `toml:"temperature"`
	Timeout     string   `toml:"timeout"` // operation timeout, e.g. "2m"
}

// TimeoutDuration parses Timeout with a 2m default.
func (c LLMConfig) TimeoutDuration() time.Duration {
	return parseDurationOr(c.Timeout, 2*time.Minute)
}

// RetrievalConfig controls the per-query retrieval step.
type RetrievalConfig struct {
	TopK          int `toml:"top_k" validate:"gt=0"`
	SnippetLength int `toml:"snippet_length" validate:"gt=0"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey string `toml:"api_key"`
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in iuris.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Documents: []DocumentConfig{
			{
				Name:     "Bundesverfassung (DE)",
				Language: "de",
				URL:      "https://www.fedlex.admin.ch/filestore/fedlex.data.admin.ch/eli/cc/1999/404/20230101/de/pdf-a/fedlex-data-admin-ch-eli-cc-1999-404-20230101-de-pdf-a.pdf",
			},
			{
				Name:     "Constitution fédérale (FR)",
				Language: "fr",
				URL:      "https://www.fedlex.admin.ch/filestore/fedlex.data.admin.ch/eli/cc/1999/404/20230101/fr/pdf-a/fedlex-data-admin-ch-eli-cc-1999-404-20230101-fr-pdf-a.pdf",
			},
			{
				Name:     "Datenschutzgesetz nDSG (DE)",
				Language: "de",
				URL:      "https://www.fedlex.admin.ch/filestore/fedlex.data.admin.ch/eli/cc/2022/491/20230901/de/pdf-a/fedlex-data-admin-ch-eli-cc-2022-491-20230901-de-pdf-a.pdf",
			},
		},
		Ingest: IngestConfig{
			ChunkSizeTokens:    400,
			ChunkOverlapTokens: 100,
			CharsPerToken:      4,
			DownloadTimeout:    "60s",
		},
		Embedding: EmbeddingConfig{
			Model:         "gemini-embedding-001",
			Dimension:     768,
			BatchSize:     10,
			BatchInterval: "500ms", // throughput throttle for the remote API, not a correctness requirement
		},
		LLM: LLMConfig{
			Candidates:  []string{"gemini-2.0-flash", "claude-haiku-3-5-20241022"},
			MaxTokens:   512,
			Temperature: 0.1,
			Timeout:     "2m",
		},
		Retrieval: RetrievalConfig{
			TopK:          4,
			SnippetLength: 300,
		},
		Gemini: GeminiConfig{
			APIKey: "", // resolved from IURIS_GEMINI_API_KEY / GEMINI_API_KEY if empty
		},
		Claude: ClaudeConfig{
			APIKey: "", // resolved from IURIS_CLAUDE_API_KEY / ANTHROPIC_API_KEY if empty
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for structural errors. API key presence
// is checked separately at service construction via ResolveAPIKey, because
// keys may arrive through the environment rather than the config file.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Ingest.ChunkOverlapTokens >= c.Ingest.ChunkSizeTokens {
		return fmt.Errorf("invalid configuration: chunk_overlap_tokens (%d) must be smaller than chunk_size_tokens (%d)",
			c.Ingest.ChunkOverlapTokens, c.Ingest.ChunkSizeTokens)
	}

	for _, d := range []struct {
		name  string
		value string
	}{
		{"ingest.download_timeout", c.Ingest.DownloadTimeout},
		{"embedding.batch_interval", c.Embedding.BatchInterval},
		{"llm.timeout", c.LLM.Timeout},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", d.name, err)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("IURIS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("IURIS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("IURIS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("IURIS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("IURIS_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("IURIS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Embedding configuration
	if model := os.Getenv("IURIS_EMBEDDING_MODEL"); model != "" {
		config.Embedding.Model = model
	}
	if dim := os.Getenv("IURIS_EMBEDDING_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			config.Embedding.Dimension = d
		}
	}
	if batchSize := os.Getenv("IURIS_EMBEDDING_BATCH_SIZE"); batchSize != "" {
		if b, err := strconv.Atoi(batchSize); err == nil {
			config.Embedding.BatchSize = b
		}
	}
	if interval := os.Getenv("IURIS_EMBEDDING_BATCH_INTERVAL"); interval != "" {
		if _, err := time.ParseDuration(interval); err == nil {
			config.Embedding.BatchInterval = interval
		}
	}

	// LLM configuration
	if candidates := os.Getenv("IURIS_LLM_CANDIDATES"); candidates != "" {
		models := []string{}
		for _, m := range strings.Split(candidates, ",") {
			if trimmed := strings.TrimSpace(m); trimmed != "" {
				models = append(models, trimmed)
			}
		}
		if len(models) > 0 {
			config.LLM.Candidates = models
		}
	}
	if maxTokens := os.Getenv("IURIS_LLM_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.LLM.MaxTokens = mt
		}
	}
	if temperature := os.Getenv("IURIS_LLM_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.LLM.Temperature = float32(t)
		}
	}
	if timeout := os.Getenv("IURIS_LLM_TIMEOUT"); timeout != "" {
		config.LLM.Timeout = timeout
	}

	// Retrieval configuration
	if topK := os.Getenv("IURIS_RETRIEVAL_TOP_K"); topK != "" {
		if k, err := strconv.Atoi(topK); err == nil {
			config.Retrieval.TopK = k
		}
	}

	// API keys
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("IURIS_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey // IURIS_ prefix takes priority
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("IURIS_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key by name with environment variable
// priority. Resolution order: environment variables -> config fallback ->
// error with an actionable message.
func ResolveAPIKey(name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"IURIS_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"claude_api_key": {"IURIS_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found: set one of %s or the config file entry",
		name, strings.Join(keyToEnvMapping[name], ", "))
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the overlap service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Search   SearchConfig   `yaml:"search"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Extract  ExtractConfig  `yaml:"extract"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds search provider settings.
type SearchConfig struct {
	Provider          string   `yaml:"provider"` // searxng (default), google
	BaseURL           string   `yaml:"base_url"`
	Engines           []string `yaml:"engines"`
	Language          string   `yaml:"language"`
	Retries           int      `yaml:"retries"`
	APIKey            string   `yaml:"api_key"`
	EngineID          string   `yaml:"engine_id"`
	ResultsPerQuery   int      `yaml:"results_per_query"`
	DailyQueryLimit   int64    `yaml:"daily_query_limit"`   // 0 = unlimited
	MonthlyQueryLimit int64    `yaml:"monthly_query_limit"` // 0 = unlimited
	QuotaAction       string   `yaml:"quota_action"`        // "reject" | "warn" (default)
}

// FetchConfig holds page download settings.
type FetchConfig struct {
	TimeoutSec   int    `yaml:"timeout_sec"`
	UserAgent    string `yaml:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	MaxRedirects int    `yaml:"max_redirects"`
}

// ExtractConfig holds text extraction settings.
type ExtractConfig struct {
	Mode     string `yaml:"mode"` // visible (default), readability
	MaxChars int    `yaml:"max_chars"`
}

// WeightsConfig holds the score blend used when a sentence signal exists.
type WeightsConfig struct {
	Lexical  float64 `yaml:"lexical"`
	Sentence float64 `yaml:"sentence"`
}

// AnalysisConfig holds pipeline tuning.
type AnalysisConfig struct {
	Workers           int           `yaml:"workers"`
	Threshold         *float64      `yaml:"threshold"` // nil means 0.5; 0 keeps every scored page
	TopK              int           `yaml:"top_k"`
	WordsPerChunk     int           `yaml:"words_per_chunk"`
	ChunkQueries      *bool         `yaml:"chunk_queries"`
	MaxQueryWords     int           `yaml:"max_query_words"`
	MaxQueryChars     int           `yaml:"max_query_chars"`
	Scoring           string        `yaml:"scoring"` // cosine (default), tfidf
	SentenceMatching  *bool         `yaml:"sentence_matching"`
	SentenceThreshold float64       `yaml:"sentence_threshold"`
	MinSentenceChars  int           `yaml:"min_sentence_chars"`
	MinSubstringChars int           `yaml:"min_substring_chars"`
	MaxSentenceChars  int           `yaml:"max_sentence_chars"`
	Weights           WeightsConfig `yaml:"weights"`
	RequestTimeoutSec int           `yaml:"request_timeout_sec"`
}

// CacheConfig holds page cache and quota store settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // redis, valkey (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Search.Provider == "" {
		c.Search.Provider = "searxng"
	}
	if c.Search.ResultsPerQuery <= 0 {
		c.Search.ResultsPerQuery = 6
	}
	if c.Search.Retries <= 0 {
		c.Search.Retries = 2
	}
	if c.Search.QuotaAction == "" {
		c.Search.QuotaAction = "warn"
	}

	if c.Fetch.TimeoutSec <= 0 {
		c.Fetch.TimeoutSec = 5
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		c.Fetch.MaxBodyBytes = 2 << 20
	}
	if c.Fetch.MaxRedirects <= 0 {
		c.Fetch.MaxRedirects = 5
	}

	if c.Extract.Mode == "" {
		c.Extract.Mode = "visible"
	}
	if c.Extract.MaxChars <= 0 {
		c.Extract.MaxChars = 5000
	}

	c.applyAnalysisDefaults()

	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

func (c *Config) applyAnalysisDefaults() {
	a := &c.Analysis
	if a.Workers <= 0 {
		a.Workers = 5
	}
	if a.Threshold == nil {
		a.Threshold = floatPtr(0.5)
	}
	if a.TopK <= 0 {
		a.TopK = 4
	}
	if a.WordsPerChunk <= 0 {
		a.WordsPerChunk = 40
	}
	if a.ChunkQueries == nil {
		a.ChunkQueries = boolPtr(true)
	}
	if a.MaxQueryWords <= 0 {
		a.MaxQueryWords = 32
	}
	if a.MaxQueryChars <= 0 {
		a.MaxQueryChars = 256
	}
	if a.Scoring == "" {
		a.Scoring = "cosine"
	}
	if a.SentenceMatching == nil {
		a.SentenceMatching = boolPtr(true)
	}
	if a.SentenceThreshold <= 0 {
		a.SentenceThreshold = 0.8
	}
	if a.MinSentenceChars <= 0 {
		a.MinSentenceChars = 20
	}
	if a.MinSubstringChars <= 0 {
		a.MinSubstringChars = 6
	}
	if a.MaxSentenceChars <= 0 {
		a.MaxSentenceChars = 5000
	}
	if a.Weights.Lexical <= 0 && a.Weights.Sentence <= 0 {
		a.Weights = WeightsConfig{Lexical: 0.4, Sentence: 0.6}
	}
	if a.RequestTimeoutSec <= 0 {
		a.RequestTimeoutSec = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.Search.validate(); err != nil {
		return err
	}
	switch c.Extract.Mode {
	case "visible", "readability":
	default:
		return fmt.Errorf("extract.mode must be \"visible\" or \"readability\", got %q", c.Extract.Mode)
	}
	if err := c.Analysis.validate(); err != nil {
		return err
	}
	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "valkey", "redis":
		default:
			return fmt.Errorf("cache.driver must be \"valkey\" or \"redis\", got %q", c.Cache.Driver)
		}
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required when cache is enabled")
		}
	}
	return nil
}

func (s *SearchConfig) validate() error {
	switch s.Provider {
	case "searxng":
		if s.BaseURL == "" {
			return fmt.Errorf("search.base_url is required for provider searxng")
		}
	case "google":
		if s.APIKey == "" || s.EngineID == "" {
			return fmt.Errorf("search.api_key and search.engine_id are required for provider google")
		}
	default:
		return fmt.Errorf("search.provider must be \"searxng\" or \"google\", got %q", s.Provider)
	}
	switch s.QuotaAction {
	case "warn", "reject":
	default:
		return fmt.Errorf("search.quota_action must be \"warn\" or \"reject\", got %q", s.QuotaAction)
	}
	if s.DailyQueryLimit < 0 || s.MonthlyQueryLimit < 0 {
		return fmt.Errorf("search query limits must not be negative")
	}
	return nil
}

func (a *AnalysisConfig) validate() error {
	if *a.Threshold < 0 || *a.Threshold > 1 {
		return fmt.Errorf("analysis.threshold must be in [0, 1], got %g", *a.Threshold)
	}
	if a.SentenceThreshold > 1 {
		return fmt.Errorf("analysis.sentence_threshold must be in [0, 1], got %g", a.SentenceThreshold)
	}
	switch a.Scoring {
	case "cosine", "tfidf":
	default:
		return fmt.Errorf("analysis.scoring must be \"cosine\" or \"tfidf\", got %q", a.Scoring)
	}
	if a.Weights.Lexical < 0 || a.Weights.Sentence < 0 {
		return fmt.Errorf("analysis.weights must not be negative")
	}
	// Combined scores stay in [0, 1] only while the weights sum to at most 1.
	if sum := a.Weights.Lexical + a.Weights.Sentence; sum > 1+1e-9 {
		return fmt.Errorf("analysis.weights must sum to at most 1, got %g", sum)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

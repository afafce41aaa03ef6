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

// Config holds the sibyl API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Policy     PolicyConfig     `yaml:"policy"`
	Intent     IntentConfig     `yaml:"intent"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
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

// DatabaseConfig holds retrieval backend connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	ConnectRetries   int      `yaml:"connect_retries"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// GenerationConfig holds generation provider settings.
type GenerationConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Model           string  `yaml:"model"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	Temperature     float32 `yaml:"temperature"`
}

// PolicyConfig holds the safety policy tables. Empty lists fall back to the
// built-in catalogues so the matching logic stays data-driven.
type PolicyConfig struct {
	MinAge            int               `yaml:"min_age"`
	RestrictedTerms   []string          `yaml:"restricted_terms"`
	SensitiveTopics   []string          `yaml:"sensitive_topics"`
	ToneSubstitutions map[string]string `yaml:"tone_substitutions"`
}

// IntentDomain is one topical domain with its trigger keywords.
// Domains are an ordered list, not a map: iteration order is part of the
// classifier contract.
type IntentDomain struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// IntentConfig holds the intent keyword catalogue and priority order.
type IntentConfig struct {
	Domains  []IntentDomain `yaml:"domains"`
	Priority []string       `yaml:"priority"`
}

// RetrievalConfig holds vector index settings.
type RetrievalConfig struct {
	Collection string `yaml:"collection"`
	TopK       int    `yaml:"top_k"`
}

// PromptConfig holds context assembly budgets and the system preamble.
type PromptConfig struct {
	ContextSeparator   string `yaml:"context_separator"`
	MaxContextChars    int    `yaml:"max_context_chars"`
	MaxPromptChars     int    `yaml:"max_prompt_chars"`
	SystemInstructions string `yaml:"system_instructions"`
	FillerReply        string `yaml:"filler_reply"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.ConnectRetries <= 0 {
		c.Database.ConnectRetries = 3
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 768
	}
	if c.Generation.MaxOutputTokens <= 0 {
		c.Generation.MaxOutputTokens = 150
	}
	if c.Policy.MinAge <= 0 {
		c.Policy.MinAge = 25
	}
	if len(c.Policy.RestrictedTerms) == 0 {
		c.Policy.RestrictedTerms = DefaultRestrictedTerms()
	}
	if len(c.Policy.SensitiveTopics) == 0 {
		c.Policy.SensitiveTopics = DefaultSensitiveTopics()
	}
	if len(c.Policy.ToneSubstitutions) == 0 {
		c.Policy.ToneSubstitutions = DefaultToneSubstitutions()
	}
	if len(c.Intent.Domains) == 0 {
		c.Intent.Domains = DefaultIntentDomains()
	}
	if len(c.Intent.Priority) == 0 {
		c.Intent.Priority = DefaultIntentPriority()
	}
	if c.Retrieval.Collection == "" {
		c.Retrieval.Collection = "sibyl_knowledge_base"
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 3
	}
	if c.Prompt.ContextSeparator == "" {
		c.Prompt.ContextSeparator = "\n---\n"
	}
	if c.Prompt.MaxContextChars <= 0 {
		c.Prompt.MaxContextChars = 3000
	}
	if c.Prompt.MaxPromptChars <= 0 {
		c.Prompt.MaxPromptChars = 6000
	}
	if c.Prompt.SystemInstructions == "" {
		c.Prompt.SystemInstructions = DefaultSystemInstructions
	}
	if c.Prompt.FillerReply == "" {
		c.Prompt.FillerReply = DefaultFillerReply
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Prompt.MaxContextChars >= c.Prompt.MaxPromptChars {
		return fmt.Errorf("prompt.max_context_chars (%d) must be below prompt.max_prompt_chars (%d)",
			c.Prompt.MaxContextChars, c.Prompt.MaxPromptChars)
	}
	seen := make(map[string]struct{}, len(c.Intent.Domains))
	for _, d := range c.Intent.Domains {
		if d.Name == "" {
			return fmt.Errorf("intent.domains entries require a name")
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("intent.domains has duplicate domain %q", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	for _, p := range c.Intent.Priority {
		if _, ok := seen[p]; !ok {
			return fmt.Errorf("intent.priority references unknown domain %q", p)
		}
	}
	return nil
}

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

	// 3. Fallback to ./config/
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
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

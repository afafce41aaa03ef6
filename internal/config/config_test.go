package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Policy.MinAge != 25 {
		t.Errorf("expected MinAge=25, got %d", cfg.Policy.MinAge)
	}
	if cfg.Embedding.Dimensions != 768 {
		t.Errorf("expected Dimensions=768, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Generation.MaxOutputTokens != 150 {
		t.Errorf("expected MaxOutputTokens=150, got %d", cfg.Generation.MaxOutputTokens)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Collection != "sibyl_knowledge_base" {
		t.Errorf("expected default collection, got %q", cfg.Retrieval.Collection)
	}
	if cfg.Prompt.MaxContextChars != 3000 {
		t.Errorf("expected MaxContextChars=3000, got %d", cfg.Prompt.MaxContextChars)
	}
	if cfg.Prompt.MaxPromptChars != 6000 {
		t.Errorf("expected MaxPromptChars=6000, got %d", cfg.Prompt.MaxPromptChars)
	}
	if cfg.Prompt.ContextSeparator != "\n---\n" {
		t.Errorf("expected default separator, got %q", cfg.Prompt.ContextSeparator)
	}
	if len(cfg.Policy.RestrictedTerms) == 0 {
		t.Error("expected built-in restricted terms")
	}
	if len(cfg.Intent.Domains) == 0 {
		t.Error("expected built-in intent catalogue")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		Policy:    PolicyConfig{MinAge: 21, RestrictedTerms: []string{"custom"}},
		Retrieval: RetrievalConfig{Collection: "my_kb", TopK: 7},
	}
	cfg.ApplyDefaults()

	if cfg.Policy.MinAge != 21 {
		t.Errorf("expected MinAge=21, got %d", cfg.Policy.MinAge)
	}
	if len(cfg.Policy.RestrictedTerms) != 1 {
		t.Errorf("expected custom terms preserved, got %d", len(cfg.Policy.RestrictedTerms))
	}
	if cfg.Retrieval.Collection != "my_kb" || cfg.Retrieval.TopK != 7 {
		t.Errorf("expected retrieval overrides preserved, got %+v", cfg.Retrieval)
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_ContextBudgetAbovePrompt(t *testing.T) {
	cfg := validConfig()
	cfg.Prompt.MaxContextChars = 6000
	cfg.Prompt.MaxPromptChars = 3000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when context budget exceeds prompt budget")
	}
}

func TestValidate_DuplicateDomain(t *testing.T) {
	cfg := validConfig()
	cfg.Intent.Domains = []IntentDomain{
		{Name: "code", Keywords: []string{"python"}},
		{Name: "code", Keywords: []string{"java"}},
	}
	cfg.Intent.Priority = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for duplicate domain name")
	}
}

func TestValidate_UnknownPriorityDomain(t *testing.T) {
	cfg := validConfig()
	cfg.Intent.Priority = append(cfg.Intent.Priority, "no_such_domain")

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for priority referencing unknown domain")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	dir := t.TempDir()
	content := `
http:
  port: 8080
database:
  addrs:
    - ${TEST_SIBYL_ADDR:-localhost:6379}
  password: ${TEST_SIBYL_PASSWORD:-}
policy:
  min_age: 30
`
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "testenv.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	t.Setenv("TEST_SIBYL_ADDR", "redis.internal:6380")

	cfg, err := Load("testenv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Addrs[0] != "redis.internal:6380" {
		t.Errorf("addr: got %q, want expanded env value", cfg.Database.Addrs[0])
	}
	if cfg.Database.Password != "" {
		t.Errorf("password: got %q, want empty default", cfg.Database.Password)
	}
	if cfg.Policy.MinAge != 30 {
		t.Errorf("min_age: got %d, want 30", cfg.Policy.MinAge)
	}
	// Defaults still fill unset sections.
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("top_k default: got %d, want 3", cfg.Retrieval.TopK)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if env := GetEnv(); env != "local" {
		t.Errorf("got %q, want local", env)
	}

	t.Setenv("ENV", "prod")
	if env := GetEnv(); env != "prod" {
		t.Errorf("got %q, want prod", env)
	}
}

package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/momwise/momwise/pkg/config"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Auth.Secret = "0123456789abcdef"
	return cfg
}

func TestDefaultConfigNeedsSecret(t *testing.T) {
	err := NewDefaultConfig().Validate()
	if err == nil {
		t.Fatal("default config without auth secret should fail")
	}
	if !strings.Contains(err.Error(), "secret") {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}
}

func TestAuthConfig_ShortSecret(t *testing.T) {
	cfg := AuthConfig{Secret: "short"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("short secret should fail validation")
	}
}

func TestLLMConfig_MissingKeyIsAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("missing api key should not fail startup: %v", err)
	}
}

func TestLLMConfig_InvalidBaseURL(t *testing.T) {
	cfg := LLMConfig{BaseURL: "not a url", Model: "m"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid base url should fail validation")
	}
}

func TestHTTPConfig_InvalidPort(t *testing.T) {
	cfg := HTTPConfig{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Fatal("port out of range should fail validation")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("MOMWISE_TEST_SECRET", "from-the-environment")
	t.Setenv("MOMWISE_TEST_KEY", "gsk_test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `app:
  log_level: debug
  http:
    port: 9090
    request_timeout: 45s
sqlite:
  path: /tmp/momwise.db
auth:
  secret: ${MOMWISE_TEST_SECRET}
  token_ttl: 2h
llm:
  api_key: ${MOMWISE_TEST_KEY}
  timeout: 10s
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("log level = %s", cfg.App.LogLevel)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.HTTP.RequestTimeout != 45*time.Second {
		t.Errorf("http = %+v", cfg.App.HTTP)
	}
	if cfg.Auth.Secret != "from-the-environment" || cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.LLM.APIKey != "gsk_test" || cfg.LLM.Timeout != 10*time.Second {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	// Unset keys keep their defaults.
	if cfg.LLM.Model == "" || cfg.Auth.Issuer != "momwise" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

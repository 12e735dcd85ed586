package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("expected default listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected 30s read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Policy.Backend != "file" {
		t.Errorf("expected file policy backend, got %q", cfg.Policy.Backend)
	}
	if !cfg.Policy.Watch {
		t.Error("expected watch enabled by default")
	}
	if cfg.Audit.RetentionDays != 90 {
		t.Errorf("expected 90 retention days, got %d", cfg.Audit.RetentionDays)
	}
	if cfg.Classifier.Enabled {
		t.Error("classifier must be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.ListenAddress = "0.0.0.0:9090"
	cfg.Audit.RetentionDays = 30
	cfg.ApplyDefaults()

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("explicit listen address overwritten: %q", cfg.Server.ListenAddress)
	}
	if cfg.Audit.RetentionDays != 30 {
		t.Errorf("explicit retention overwritten: %d", cfg.Audit.RetentionDays)
	}
	// Unset fields still get defaults
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  listen_address: "127.0.0.1:9000"
policy:
  backend: memory
audit:
  backend: memory
auth:
  allow_demo_tokens: true
  tokens:
    - token: secret-token
      user_id: u1
      username: alice
      role: admin
      enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:9000" {
		t.Errorf("expected loaded address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Policy.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", cfg.Policy.Backend)
	}
	if len(cfg.Auth.Tokens) != 1 || cfg.Auth.Tokens[0].Role != "admin" {
		t.Errorf("unexpected tokens: %+v", cfg.Auth.Tokens)
	}
	// Defaults still applied to sections the file did not set
	if cfg.Audit.AsyncBuffer != 1000 {
		t.Errorf("expected default async buffer, got %d", cfg.Audit.AsyncBuffer)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
classifier:
  enabled: true
  base_url: "http://localhost:9999"
  api_key: from-file
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvClassifierAPIKey, "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Classifier.APIKey != "from-env" {
		t.Errorf("expected env override, got %q", cfg.Classifier.APIKey)
	}
}

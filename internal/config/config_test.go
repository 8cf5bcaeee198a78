package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
server:
  port: 8080
database:
  driver: mysql
  host: localhost
  port: 3306
  user: leakwatch
  password: secret
  name: leakwatch
openai:
  apiKey: sk-test
  model: gpt-4o-mini
auth:
  apiKeys:
    acme: key-satu
discovery:
  targetDomain: ui.ac.id
  requestDelaySec: 3
  maxRetries: 5
  sources:
    - https://pastebin.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", cfg.OpenAI.Model)
	}
	if cfg.Auth.APIKeys["acme"] != "key-satu" {
		t.Fatalf("apiKeys = %v", cfg.Auth.APIKeys)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	want := "leakwatch:secret@tcp(localhost:3306)/leakwatch?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.MySQLDSN(); got != want {
		t.Fatalf("MySQLDSN = %q, want %q", got, want)
	}
}

func TestPostgresDSNDefaultSSLMode(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	want := "host=localhost port=3306 user=leakwatch password=secret dbname=leakwatch sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Fatalf("PostgresDSN = %q, want %q", got, want)
	}
}

func TestDiscoveryConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	d := cfg.DiscoveryConfig()
	if d.TargetDomain != "ui.ac.id" {
		t.Fatalf("targetDomain = %q", d.TargetDomain)
	}
	if d.RequestDelay != 3*time.Second {
		t.Fatalf("requestDelay = %v", d.RequestDelay)
	}
	if d.MaxRetries != 5 {
		t.Fatalf("maxRetries = %d", d.MaxRetries)
	}
	if len(d.Sources) != 1 {
		t.Fatalf("sources = %v", d.Sources)
	}
}

package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgconfig "github.com/starford/folio/pkg/config"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.RSS.Domain = "example.org"
	return cfg
}

func TestConfig_DefaultsNeedDomain(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err == nil {
		t.Fatal("defaults without rss.domain should fail")
	}
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestConfig_ArtifactsDir(t *testing.T) {
	for _, dir := range []string{"", ".", "..", "../out", "/tmp/out", "documents", "static/gen", "templates"} {
		cfg := validConfig()
		cfg.ArtifactsDir = dir
		if err := cfg.Validate(); err == nil {
			t.Errorf("artifacts_dir %q should be rejected", dir)
		}
	}
	for _, dir := range []string{"artifacts", "build/site", "public"} {
		cfg := validConfig()
		cfg.ArtifactsDir = dir
		if err := cfg.Validate(); err != nil {
			t.Errorf("artifacts_dir %q rejected: %v", dir, err)
		}
	}
}

func TestConfig_TimezoneRange(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = 5.5
	if err := cfg.Validate(); err != nil {
		t.Errorf("5.5 should be valid: %v", err)
	}
	cfg.Timezone = 15
	if err := cfg.Validate(); err == nil {
		t.Error("15 should be out of range")
	}
}

func TestConfig_PeekLengthAndPort(t *testing.T) {
	cfg := validConfig()
	cfg.PeekLength = 0
	if err := cfg.Validate(); err == nil {
		t.Error("peek_length 0 should fail")
	}
	cfg = validConfig()
	cfg.Serve.Port = 70000
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "serve") {
		t.Errorf("port 70000: err = %v", err)
	}
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("FOLIO_TEST_DOMAIN", "blog.example.org")
	src := `datetime_format: "%d.%m.%Y %H:%M"
timezone: 2
artifacts_dir: public
pandoc_args: ["--mathml", "--no-highlight"]
peek_length: 120
log_level: debug
rss:
  domain: ${FOLIO_TEST_DOMAIN}
  desc: Notes
  lang: de
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := cfg.Settings()
	if s.Feed.Domain != "blog.example.org" {
		t.Errorf("domain = %q", s.Feed.Domain)
	}
	if s.Timezone != 2 || s.PeekLength != 120 || s.ArtifactsDir != "public" {
		t.Errorf("settings = %+v", s)
	}
	if len(s.ConverterArgs) != 2 || s.ConverterArgs[0] != "--mathml" {
		t.Errorf("converter args = %v", s.ConverterArgs)
	}
	if s.Converter != "pandoc" {
		t.Errorf("converter default lost: %q", s.Converter)
	}
	if cfg.LogLevel.String() != "DEBUG" {
		t.Errorf("log level = %v", cfg.LogLevel)
	}
	if s.Feed.Generator != Generator {
		t.Errorf("generator = %q", s.Feed.Generator)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Directory.BaseURL != "https://api.prospeo.io" {
		t.Fatalf("unexpected base URL: %q", cfg.Directory.BaseURL)
	}
	if cfg.Directory.PageSize != 25 || cfg.Directory.MaxResults != 200 || cfg.Directory.MaxPages != 8 {
		t.Fatalf("unexpected paging defaults: %#v", cfg.Directory)
	}
	if cfg.Directory.PageDelay.Std() != time.Second {
		t.Fatalf("unexpected page delay: %v", cfg.Directory.PageDelay.Std())
	}
	if cfg.Data.CompanyStore != filepath.Join("data", "filtered.csv") {
		t.Fatalf("unexpected company store: %q", cfg.Data.CompanyStore)
	}
	if cfg.Data.PersonStore != filepath.Join("data", "messages.csv") {
		t.Fatalf("unexpected person store: %q", cfg.Data.PersonStore)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true); err == nil {
		t.Fatalf("expected error for an explicitly named missing file")
	}
}

func TestLoadFileAndEnvLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
directory:
  base_url: https://directory.internal
  page_delay: 500ms
gemini:
  model: gemini-2.5-pro
pipeline:
  item_delay: 3s
data:
  dir: out
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PROSPEO_API_KEY", "pk-test")
	t.Setenv("ITEM_DELAY", "250ms") // env wins over file
	t.Setenv("MAX_PAGES", "3")
	t.Setenv("ENRICH_MOBILE", "true")

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Directory.BaseURL != "https://directory.internal" {
		t.Fatalf("file value not applied: %q", cfg.Directory.BaseURL)
	}
	if cfg.Directory.PageDelay.Std() != 500*time.Millisecond {
		t.Fatalf("unexpected page delay: %v", cfg.Directory.PageDelay.Std())
	}
	if cfg.Directory.APIKey != "pk-test" {
		t.Fatalf("env value not applied: %q", cfg.Directory.APIKey)
	}
	if cfg.Pipeline.ItemDelay.Std() != 250*time.Millisecond {
		t.Fatalf("env should override file: %v", cfg.Pipeline.ItemDelay.Std())
	}
	if cfg.Directory.MaxPages != 3 || !cfg.Pipeline.EnrichMobile {
		t.Fatalf("env overrides missing: %#v", cfg)
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Fatalf("unexpected model: %q", cfg.Gemini.Model)
	}
	if cfg.Data.CompanyStore != filepath.Join("out", "filtered.csv") {
		t.Fatalf("store path should follow data dir: %q", cfg.Data.CompanyStore)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("MAX_RESULTS", "lots")
	if _, err := Load("", false); err == nil {
		t.Fatalf("expected error for invalid MAX_RESULTS")
	}
}

func TestDurationUnmarshalRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pipeline:\n  item_delay: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, true); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

// Package config assembles runtime configuration from defaults, an optional
// YAML file, and environment variable overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "1s" decode.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	out, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(out)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Directory configures the person directory API client.
type Directory struct {
	APIKey     string   `yaml:"api_key"`
	BaseURL    string   `yaml:"base_url"`
	PageSize   int      `yaml:"page_size"`
	MaxResults int      `yaml:"max_results"`
	MaxPages   int      `yaml:"max_pages"`
	PageDelay  Duration `yaml:"page_delay"`
}

// Gemini configures the decision service.
type Gemini struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Pipeline configures batch pacing and enrichment behavior.
type Pipeline struct {
	ItemDelay    Duration `yaml:"item_delay"`
	EnrichMobile bool     `yaml:"enrich_mobile"`
}

// Data configures where stores and snapshots live.
type Data struct {
	Dir          string `yaml:"dir"`
	CompanyStore string `yaml:"company_store"`
	PersonStore  string `yaml:"person_store"`
}

type Config struct {
	Directory Directory `yaml:"directory"`
	Gemini    Gemini    `yaml:"gemini"`
	Pipeline  Pipeline  `yaml:"pipeline"`
	Data      Data      `yaml:"data"`
}

// Load returns the effective configuration. A missing file at path is not an
// error unless the path was set explicitly by the caller; pass explicit=false
// for the default location.
func Load(path string, explicit bool) (Config, error) {
	cfg := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// Default location, nothing there: env and defaults only.
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func defaults() Config {
	return Config{
		Directory: Directory{
			BaseURL:    "https://api.prospeo.io",
			PageSize:   25,
			MaxResults: 200,
			MaxPages:   8,
			PageDelay:  Duration(time.Second),
		},
		Gemini: Gemini{
			Model: "gemini-2.5-flash",
		},
		Pipeline: Pipeline{
			ItemDelay: Duration(2 * time.Second),
		},
		Data: Data{
			Dir: "data",
		},
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Directory.APIKey, "PROSPEO_API_KEY")
	setString(&cfg.Directory.BaseURL, "PROSPEO_BASE_URL")
	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.Gemini.BaseURL, "GEMINI_BASE_URL")
	setString(&cfg.Data.Dir, "DATA_DIR")

	if err := setInt(&cfg.Directory.MaxResults, "MAX_RESULTS"); err != nil {
		return err
	}
	if err := setInt(&cfg.Directory.MaxPages, "MAX_PAGES"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Directory.PageDelay, "PAGE_DELAY"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Pipeline.ItemDelay, "ITEM_DELAY"); err != nil {
		return err
	}
	if err := setBool(&cfg.Pipeline.EnrichMobile, "ENRICH_MOBILE"); err != nil {
		return err
	}
	return nil
}

// normalize fills derived paths after file and env layers are applied.
func (c *Config) normalize() {
	if c.Data.CompanyStore == "" {
		c.Data.CompanyStore = filepath.Join(c.Data.Dir, "filtered.csv")
	}
	if c.Data.PersonStore == "" {
		c.Data.PersonStore = filepath.Join(c.Data.Dir, "messages.csv")
	}
}

func setString(dst *string, varName string) {
	if v := strings.TrimSpace(os.Getenv(varName)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, varName string) error {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	*dst = out
	return nil
}

func setDuration(dst *Duration, varName string) error {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	*dst = Duration(out)
	return nil
}

func setBool(dst *bool, varName string) error {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return nil
	}
	out, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	*dst = out
	return nil
}

// Package config loads the suite configuration from the browser.json,
// test.json and reporting.json documents of a config directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/viper"
)

const (
	BrowserFile   = "browser.json"
	TestFile      = "test.json"
	ReportingFile = "reporting.json"
)

// Engines lists the supported browser engines.
var Engines = []string{"chromium", "firefox", "webkit"}

// Config holds all three configuration documents.
type Config struct {
	Browser   BrowserConfig   `json:"browser"`
	Test      TestConfig      `json:"test"`
	Reporting ReportingConfig `json:"reporting"`
}

type BrowserConfig struct {
	Headless bool   `mapstructure:"headless" json:"headless"`
	Browser  string `mapstructure:"browser" json:"browser"`
	// SlowMo delays every browser operation, in milliseconds.
	SlowMo   int      `mapstructure:"slow_mo" json:"slow_mo"`
	Viewport Viewport `mapstructure:"viewport" json:"viewport"`
}

type Viewport struct {
	Width  int `mapstructure:"width" json:"width"`
	Height int `mapstructure:"height" json:"height"`
}

type TestConfig struct {
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// Timeout is the default wait bound in milliseconds.
	Timeout int `mapstructure:"timeout" json:"timeout"`
}

// TimeoutDuration returns Timeout as a duration.
func (c TestConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

type ReportingConfig struct {
	ReportsDir string `mapstructure:"reports_dir" json:"reports_dir"`
	// Highlight enables the highlighted HTML report next to the raw markup dump.
	Highlight bool `mapstructure:"highlight" json:"highlight"`
	// JournalLines is how many log records are kept for failure reports.
	JournalLines int    `mapstructure:"journal_lines" json:"journal_lines"`
	LogFile      string `mapstructure:"log_file" json:"log_file"`
	LogLevel     string `mapstructure:"log_level" json:"log_level"`
}

func setBrowserDefaults(v *viper.Viper) {
	v.SetDefault("headless", true)
	v.SetDefault("browser", "chromium")
	v.SetDefault("slow_mo", 0)
	v.SetDefault("viewport.width", 1920)
	v.SetDefault("viewport.height", 1080)
}

func setTestDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://www.kiwi.com/en/")
	v.SetDefault("timeout", 20000)
}

func bindTestEnv(v *viper.Viper) {
	_ = v.BindEnv("base_url", "FLIGHTSEARCH_BASE_URL")
}

func setReportingDefaults(v *viper.Viper) {
	v.SetDefault("reports_dir", "reports")
	v.SetDefault("highlight", true)
	v.SetDefault("journal_lines", 200)
	v.SetDefault("log_file", filepath.Join("reports", "flightsearch.log"))
	v.SetDefault("log_level", "info")
}

// Default returns the built-in configuration without files or environment.
func Default() *Config {
	var cfg Config
	for _, err := range []error{
		loadDocument("", BrowserFile, &cfg.Browser, setBrowserDefaults),
		loadDocument("", TestFile, &cfg.Test, setTestDefaults),
		loadDocument("", ReportingFile, &cfg.Reporting, setReportingDefaults),
	} {
		if err != nil {
			panic(fmt.Sprintf("failed to decode default config: %v", err))
		}
	}
	return &cfg
}

// Load reads the three documents from dir. Missing documents fall back to
// defaults, malformed ones fail. Environment overrides are applied before
// validation: FLIGHTSEARCH_BASE_URL replaces test.base_url, GITHUB_ACTIONS
// and HEADLESS adjust the browser.
func Load(dir string) (*Config, error) {
	var cfg Config
	if err := loadDocument(dir, BrowserFile, &cfg.Browser, setBrowserDefaults); err != nil {
		return nil, err
	}
	if err := loadDocument(dir, TestFile, &cfg.Test, setTestDefaults, bindTestEnv); err != nil {
		return nil, err
	}
	if err := loadDocument(dir, ReportingFile, &cfg.Reporting, setReportingDefaults); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadDocument(dir, name string, out any, setup ...func(*viper.Viper)) error {
	v := viper.New()
	for _, fn := range setup {
		fn(v)
	}

	if dir != "" {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("reading %s: %w", name, err)
		default:
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// applyEnv forces a headless chromium in GitHub Actions. Outside of CI,
// HEADLESS=false shows the browser for debugging.
func (c *Config) applyEnv() {
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		c.Browser.Headless = true
		c.Browser.Browser = "chromium"
		return
	}
	if os.Getenv("HEADLESS") == "false" {
		c.Browser.Headless = false
	}
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if !slices.Contains(Engines, c.Browser.Browser) {
		return fmt.Errorf("browser.browser must be one of %v, got %q", Engines, c.Browser.Browser)
	}
	if c.Browser.SlowMo < 0 {
		return fmt.Errorf("browser.slow_mo must not be negative")
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		return fmt.Errorf("browser.viewport must have a positive width and height")
	}
	u, err := url.Parse(c.Test.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("test.base_url must be an absolute http(s) url, got %q", c.Test.BaseURL)
	}
	if c.Test.Timeout <= 0 {
		return fmt.Errorf("test.timeout must be a positive integer")
	}
	if c.Reporting.ReportsDir == "" {
		return fmt.Errorf("reporting.reports_dir is required")
	}
	if c.Reporting.JournalLines <= 0 {
		return fmt.Errorf("reporting.journal_lines must be a positive integer")
	}
	return nil
}

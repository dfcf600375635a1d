// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the full application configuration. Sections are loaded from the
// YAML config file and the AUTOFILL_* environment, with CLI flags layered on
// top by the cmd package.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Browser   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Network   NetworkConfig   `mapstructure:"network" yaml:"network"`
	Backend   BackendConfig   `mapstructure:"backend" yaml:"backend"`
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Fill      FillConfig      `mapstructure:"fill" yaml:"fill"`
}

// LoggerConfig controls the zap logger construction.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the chromedp allocator.
type BrowserConfig struct {
	Headless        bool   `mapstructure:"headless" yaml:"headless"`
	ExecPath        string `mapstructure:"exec_path" yaml:"exec_path"`
	IgnoreTLSErrors bool   `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Debug           bool   `mapstructure:"debug" yaml:"debug"`
}

// NetworkConfig controls page-level timing.
type NetworkConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// BackendConfig describes the external tailoring backend. The engine treats it
// as an opaque data source; every call through it is bounded and best-effort
// except the initial profile fetch.
type BackendConfig struct {
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	ProfileName string        `mapstructure:"profile_name" yaml:"profile_name"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// AnalyzeTimeout bounds the optional form-analysis call separately, since
	// it must never hold up a fill that direct detection can already serve.
	AnalyzeTimeout time.Duration `mapstructure:"analyze_timeout" yaml:"analyze_timeout"`
	// RatePerSecond limits outbound backend requests.
	RatePerSecond float64 `mapstructure:"rate_per_second" yaml:"rate_per_second"`
}

// DiscoveryConfig bounds the field discovery pass.
type DiscoveryConfig struct {
	// MutationMaxWait caps how long the dynamic-content waiter observes the
	// DOM for late-rendering forms before giving up.
	MutationMaxWait time.Duration `mapstructure:"mutation_max_wait" yaml:"mutation_max_wait"`
	// RemoteAnalysis toggles the best-effort remote classification pass.
	RemoteAnalysis bool `mapstructure:"remote_analysis" yaml:"remote_analysis"`
	// SnippetMaxBytes caps the serialized DOM snippet sent for remote
	// analysis; snippets above HardMaxBytes are never sent at all.
	SnippetMaxBytes int `mapstructure:"snippet_max_bytes" yaml:"snippet_max_bytes"`
	HardMaxBytes    int `mapstructure:"hard_max_bytes" yaml:"hard_max_bytes"`
}

// FillConfig holds the per-widget settle delays applied after each mutation so
// reactive frameworks can process the dispatched events before the next field
// is touched. Values trade total fill latency against reliability on pages
// that debounce input handling.
type FillConfig struct {
	InputDelay          time.Duration `mapstructure:"input_delay" yaml:"input_delay"`
	SelectDelay         time.Duration `mapstructure:"select_delay" yaml:"select_delay"`
	CheckboxDelay       time.Duration `mapstructure:"checkbox_delay" yaml:"checkbox_delay"`
	RadioDelay          time.Duration `mapstructure:"radio_delay" yaml:"radio_delay"`
	DateDelay           time.Duration `mapstructure:"date_delay" yaml:"date_delay"`
	FileDelay           time.Duration `mapstructure:"file_delay" yaml:"file_delay"`
	ComboboxTypeDelay   time.Duration `mapstructure:"combobox_type_delay" yaml:"combobox_type_delay"`
	ComboboxSelectDelay time.Duration `mapstructure:"combobox_select_delay" yaml:"combobox_select_delay"`
	StepWait            time.Duration `mapstructure:"step_wait" yaml:"step_wait"`
	// StepTimeout bounds how long the orchestrator waits for a step's first
	// field to mount before moving on.
	StepTimeout time.Duration `mapstructure:"step_timeout" yaml:"step_timeout"`
}

// -- Defaults --

func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.ServiceName == "" {
		c.ServiceName = "autofill-cli"
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 50
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 3
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 14
	}
}

func (c *NetworkConfig) SetDefaults() {
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 90 * time.Second
	}
	if c.PostLoadWait <= 0 {
		c.PostLoadWait = 1500 * time.Millisecond
	}
}

func (c *BackendConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	if c.ProfileName == "" {
		c.ProfileName = "default"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.AnalyzeTimeout <= 0 {
		c.AnalyzeTimeout = 15 * time.Second
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 2
	}
}

func (c *DiscoveryConfig) SetDefaults() {
	if c.MutationMaxWait <= 0 {
		c.MutationMaxWait = 4 * time.Second
	}
	if c.SnippetMaxBytes <= 0 {
		c.SnippetMaxBytes = 200_000
	}
	if c.HardMaxBytes <= 0 {
		c.HardMaxBytes = 500_000
	}
}

func (c *FillConfig) SetDefaults() {
	setIfZero := func(d *time.Duration, v time.Duration) {
		if *d <= 0 {
			*d = v
		}
	}
	setIfZero(&c.InputDelay, 20*time.Millisecond)
	setIfZero(&c.SelectDelay, 30*time.Millisecond)
	setIfZero(&c.CheckboxDelay, 20*time.Millisecond)
	setIfZero(&c.RadioDelay, 20*time.Millisecond)
	setIfZero(&c.DateDelay, 30*time.Millisecond)
	setIfZero(&c.FileDelay, 120*time.Millisecond)
	setIfZero(&c.ComboboxTypeDelay, 20*time.Millisecond)
	setIfZero(&c.ComboboxSelectDelay, 40*time.Millisecond)
	setIfZero(&c.StepWait, 50*time.Millisecond)
	setIfZero(&c.StepTimeout, 5*time.Second)
}

// SetDefaults applies defaults across every section.
func (c *Config) SetDefaults() {
	c.Logger.SetDefaults()
	c.Network.SetDefaults()
	c.Backend.SetDefaults()
	c.Discovery.SetDefaults()
	c.Fill.SetDefaults()
}

// DelayFor returns the settle delay for a widget kind name. Unknown kinds get
// the generic input delay.
func (c *FillConfig) DelayFor(kind string) time.Duration {
	switch kind {
	case "select":
		return c.SelectDelay
	case "checkbox":
		return c.CheckboxDelay
	case "radio":
		return c.RadioDelay
	case "date":
		return c.DateDelay
	case "file":
		return c.FileDelay
	case "combobox":
		return c.ComboboxSelectDelay
	default:
		return c.InputDelay
	}
}

// Load reads the configuration from the given file (or the default search
// path when empty), layers in the environment, and applies defaults. A missing
// config file is not an error; everything has a workable default.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".autofill"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("AUTOFILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true must be seeded here; SetDefaults cannot
	// tell an explicit false from the zero value.
	v.SetDefault("browser.headless", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; proceed with defaults and env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.SetDefaults()
	return &cfg, nil
}

// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Resolver() ResolverConfig
	Runner() RunnerConfig
	Report() ReportConfig

	// Browser setters
	SetBrowserHeadless(bool)
	SetBrowserIgnoreTLSErrors(bool)

	// Resolver setters
	SetResolverTimeout(time.Duration)
	SetResolverMaxRetries(int)
	SetResolverFuzzyFloor(float64)

	// Runner setters
	SetRunnerConcurrency(int)
	SetRunnerArtifactsDir(string)

	// Report setters
	SetReportFormat(string)
	SetReportOutputPath(string)
}

// Config holds the entire application configuration. Fields are exported for
// viper/mapstructure decoding; consumers should go through Interface so tests
// can substitute a mock.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	BrowserCfg  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	ResolverCfg ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
	RunnerCfg   RunnerConfig   `mapstructure:"runner" yaml:"runner"`
	ReportCfg   ReportConfig   `mapstructure:"report" yaml:"report"`
}

var _ Interface = (*Config)(nil)

// --- Getters ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig   { return c.BrowserCfg }
func (c *Config) Resolver() ResolverConfig { return c.ResolverCfg }
func (c *Config) Runner() RunnerConfig     { return c.RunnerCfg }
func (c *Config) Report() ReportConfig     { return c.ReportCfg }

// --- Setters (CLI flag overrides) ---

func (c *Config) SetBrowserHeadless(b bool)          { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserIgnoreTLSErrors(b bool)   { c.BrowserCfg.IgnoreTLSErrors = b }
func (c *Config) SetResolverTimeout(d time.Duration) { c.ResolverCfg.Timeout = d }
func (c *Config) SetResolverMaxRetries(n int)        { c.ResolverCfg.MaxRetries = n }
func (c *Config) SetResolverFuzzyFloor(f float64)    { c.ResolverCfg.FuzzyFloor = f }
func (c *Config) SetRunnerConcurrency(n int)         { c.RunnerCfg.Concurrency = n }
func (c *Config) SetRunnerArtifactsDir(dir string)   { c.RunnerCfg.ArtifactsDir = dir }
func (c *Config) SetReportFormat(format string)      { c.ReportCfg.Format = format }
func (c *Config) SetReportOutputPath(path string)    { c.ReportCfg.OutputPath = path }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the launched browser process and navigation timing.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors   bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// ResolverConfig tunes the element resolution engine. The acceptance
// threshold itself is fixed and deliberately not configurable.
type ResolverConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	FuzzyFloor float64       `mapstructure:"fuzzy_floor" yaml:"fuzzy_floor"`
}

// RunnerConfig controls test script execution.
type RunnerConfig struct {
	Concurrency         int    `mapstructure:"concurrency" yaml:"concurrency"`
	ScreenshotOnFailure bool   `mapstructure:"screenshot_on_failure" yaml:"screenshot_on_failure"`
	ArtifactsDir        string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	Format     string `mapstructure:"format" yaml:"format"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "lancet-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.window_width", 1366)
	v.SetDefault("browser.window_height", 900)
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.post_load_wait", "500ms")

	// -- Resolver --
	v.SetDefault("resolver.timeout", "10s")
	v.SetDefault("resolver.max_retries", 3)
	v.SetDefault("resolver.fuzzy_floor", 0.3)

	// -- Runner --
	v.SetDefault("runner.concurrency", 2)
	v.SetDefault("runner.screenshot_on_failure", true)
	v.SetDefault("runner.artifacts_dir", "lancet-artifacts")

	// -- Report --
	v.SetDefault("report.format", "json")
	v.SetDefault("report.output_path", "")
}

// AddConfigPaths registers the search locations for the config file: the
// working directory first, then the user's home directory.
func AddConfigPaths(v *viper.Viper) {
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.ResolverCfg.MaxRetries <= 0 {
		return fmt.Errorf("resolver.max_retries must be a positive integer")
	}
	if c.ResolverCfg.Timeout <= 0 {
		return fmt.Errorf("resolver.timeout must be a positive duration")
	}
	if c.ResolverCfg.FuzzyFloor < 0.0 || c.ResolverCfg.FuzzyFloor > 1.0 {
		return fmt.Errorf("resolver.fuzzy_floor must be between 0.0 and 1.0")
	}
	if c.RunnerCfg.Concurrency <= 0 {
		return fmt.Errorf("runner.concurrency must be a positive integer")
	}
	switch c.ReportCfg.Format {
	case "json", "html", "junit":
	default:
		return fmt.Errorf("report.format must be one of json, html, junit (got %q)", c.ReportCfg.Format)
	}
	return nil
}

// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// DefaultEnvironment is the section every lookup falls back to.
const DefaultEnvironment = "default"

// Session scopes accepted by run.scope.
const (
	ScopeSuite    = "suite"
	ScopeScenario = "scenario"
)

// ErrConfigurationMissing is returned when a key is absent from both the requested
// environment and the default environment.
var ErrConfigurationMissing = errors.New("configuration missing")

// MissingKeyError describes which key could not be resolved and for which environment.
type MissingKeyError struct {
	Env string
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("key '%s' not found in config for environment '%s' or '%s'", e.Key, e.Env, DefaultEnvironment)
}

// Is lets errors.Is match ErrConfigurationMissing.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrConfigurationMissing
}

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Report() ReportConfig
	Run() RunConfig
	Lookup(env, key string) (string, error)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg    LoggerConfig                 `mapstructure:"logger" yaml:"logger"`
	BrowserCfg   BrowserConfig                `mapstructure:"browser" yaml:"browser"`
	ReportCfg    ReportConfig                 `mapstructure:"report" yaml:"report"`
	RunCfg       RunConfig                    `mapstructure:"run" yaml:"run"`
	Environments map[string]map[string]string `mapstructure:"environments" yaml:"environments"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig { return c.BrowserCfg }
func (c *Config) Report() ReportConfig   { return c.ReportCfg }
func (c *Config) Run() RunConfig         { return c.RunCfg }

// Lookup resolves key for env, falling back to the default environment. A key missing
// from both is a *MissingKeyError; an empty value that is present is returned as is.
func (c *Config) Lookup(env, key string) (string, error) {
	env = strings.ToLower(env)
	key = strings.ToLower(key)
	if env == "" {
		env = DefaultEnvironment
	}
	if section, ok := c.Environments[env]; ok {
		if v, ok := section[key]; ok {
			return v, nil
		}
	}
	if section, ok := c.Environments[DefaultEnvironment]; ok {
		if v, ok := section[key]; ok {
			return v, nil
		}
	}
	return "", &MissingKeyError{Env: env, Key: key}
}

// BaseURL is shorthand for Lookup(env, "base_url").
func (c *Config) BaseURL(env string) (string, error) {
	return c.Lookup(env, "base_url")
}

// --- Setters used for CLI flag overrides ---

func (c *Config) SetBrowserHeadless(b bool)        { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserTimeout(d time.Duration) { c.BrowserCfg.Timeout = d }
func (c *Config) SetRunEnv(env string)             { c.RunCfg.Env = env }
func (c *Config) SetRunScope(scope string)         { c.RunCfg.Scope = scope }
func (c *Config) SetRunDataFile(path string)       { c.RunCfg.DataFile = path }
func (c *Config) SetRunFilter(filter string)       { c.RunCfg.Filter = filter }
func (c *Config) SetReportDir(dir string)          { c.ReportCfg.Dir = dir }
func (c *Config) SetReportFormats(formats []string) {
	c.ReportCfg.Formats = formats
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogDir      string      `mapstructure:"log_dir" yaml:"log_dir"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the Chrome instance and the readiness waits.
type BrowserConfig struct {
	Headless     bool          `mapstructure:"headless" yaml:"headless"`
	ExecPath     string        `mapstructure:"exec_path" yaml:"exec_path"`
	NoSandbox    bool          `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	WindowWidth  int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int           `mapstructure:"window_height" yaml:"window_height"`
	Args         []string      `mapstructure:"args" yaml:"args"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	// NavigationTimeout bounds Navigate and Refresh, which carry no readiness wait.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// ReportConfig controls where run artifacts are written.
type ReportConfig struct {
	Dir           string   `mapstructure:"dir" yaml:"dir"`
	ScreenshotDir string   `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	Formats       []string `mapstructure:"formats" yaml:"formats"`
	Title         string   `mapstructure:"title" yaml:"title"`
}

// RunConfig gets its marching orders mostly from CLI flags.
type RunConfig struct {
	Env      string `mapstructure:"env" yaml:"env"`
	Scope    string `mapstructure:"scope" yaml:"scope"`
	DataFile string `mapstructure:"data_file" yaml:"data_file"`
	Filter   string `mapstructure:"filter" yaml:"filter"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pagepilot")
	v.SetDefault("logger.log_dir", "logs")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.no_sandbox", true)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.timeout", "10s")
	v.SetDefault("browser.poll_interval", "500ms")
	v.SetDefault("browser.navigation_timeout", "60s")

	// -- Report --
	v.SetDefault("report.dir", "reports")
	v.SetDefault("report.screenshot_dir", "screenshots")
	v.SetDefault("report.formats", []string{"html"})
	v.SetDefault("report.title", "Test Report")

	// -- Run --
	v.SetDefault("run.env", DefaultEnvironment)
	v.SetDefault("run.scope", ScopeSuite)

	// -- Environments --
	v.SetDefault("environments.default.base_url", "https://rahulshettyacademy.com/AutomationPractice/")
}

// NewDefaultConfig returns a configuration populated only from defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults are static; a failure here is a programming error.
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// expandPaths resolves a leading ~ in every path-valued setting.
func (c *Config) expandPaths() error {
	paths := []*string{
		&c.LoggerCfg.LogDir,
		&c.LoggerCfg.LogFile,
		&c.BrowserCfg.ExecPath,
		&c.ReportCfg.Dir,
		&c.ReportCfg.ScreenshotDir,
		&c.RunCfg.DataFile,
	}
	for _, p := range paths {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("could not expand path '%s': %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.BrowserCfg.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be a positive duration")
	}
	if c.BrowserCfg.PollInterval <= 0 {
		return fmt.Errorf("browser.poll_interval must be a positive duration")
	}
	if c.BrowserCfg.PollInterval > c.BrowserCfg.Timeout {
		return fmt.Errorf("browser.poll_interval (%v) must not exceed browser.timeout (%v)", c.BrowserCfg.PollInterval, c.BrowserCfg.Timeout)
	}
	switch c.RunCfg.Scope {
	case ScopeSuite, ScopeScenario:
	default:
		return fmt.Errorf("run.scope must be '%s' or '%s', got '%s'", ScopeSuite, ScopeScenario, c.RunCfg.Scope)
	}
	if c.ReportCfg.Dir == "" {
		return fmt.Errorf("report.dir is a required configuration field")
	}
	return nil
}

// File: internal/config/config_test.go
package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "logs", cfg.Logger().LogDir)
	assert.False(t, cfg.Browser().Headless)
	assert.Equal(t, 10*time.Second, cfg.Browser().Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Browser().PollInterval)
	assert.Equal(t, "reports", cfg.Report().Dir)
	assert.Equal(t, []string{"html"}, cfg.Report().Formats)
	assert.Equal(t, DefaultEnvironment, cfg.Run().Env)
	assert.Equal(t, ScopeSuite, cfg.Run().Scope)

	baseURL, err := cfg.BaseURL(DefaultEnvironment)
	require.NoError(t, err)
	assert.Contains(t, baseURL, "AutomationPractice")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.NoError(t, cfg.Validate(), "A valid config should not produce a validation error")

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero timeout", func(c *Config) { c.BrowserCfg.Timeout = 0 }, "browser.timeout must be a positive duration"},
		{"zero poll interval", func(c *Config) { c.BrowserCfg.PollInterval = 0 }, "browser.poll_interval must be a positive duration"},
		{"poll slower than timeout", func(c *Config) { c.BrowserCfg.PollInterval = time.Minute }, "must not exceed browser.timeout"},
		{"unknown scope", func(c *Config) { c.RunCfg.Scope = "class" }, "run.scope must be"},
		{"missing report dir", func(c *Config) { c.ReportCfg.Dir = "" }, "report.dir is a required configuration field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *cfg
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// -- Environment Lookup Tests --

func newEnvConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Environments = map[string]map[string]string{
		"default": {"base_url": "https://default.example", "username": "guest"},
		"uat":     {"base_url": "https://uat.example", "empty": ""},
	}
	return cfg
}

func TestLookup(t *testing.T) {
	cfg := newEnvConfig()

	t.Run("environment value wins", func(t *testing.T) {
		v, err := cfg.Lookup("uat", "base_url")
		require.NoError(t, err)
		assert.Equal(t, "https://uat.example", v)
	})

	t.Run("falls back to default section", func(t *testing.T) {
		v, err := cfg.Lookup("uat", "username")
		require.NoError(t, err)
		assert.Equal(t, "guest", v)
	})

	t.Run("unknown environment falls back to default", func(t *testing.T) {
		v, err := cfg.Lookup("prod", "base_url")
		require.NoError(t, err)
		assert.Equal(t, "https://default.example", v)
	})

	t.Run("present but empty value is returned", func(t *testing.T) {
		v, err := cfg.Lookup("uat", "empty")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("lookup is case insensitive", func(t *testing.T) {
		v, err := cfg.Lookup("UAT", "BASE_URL")
		require.NoError(t, err)
		assert.Equal(t, "https://uat.example", v)
	})

	t.Run("missing everywhere is ConfigurationMissing", func(t *testing.T) {
		v, err := cfg.Lookup("uat", "api_token")
		require.Error(t, err)
		assert.Empty(t, v)
		assert.True(t, errors.Is(err, ErrConfigurationMissing))

		var missing *MissingKeyError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "uat", missing.Env)
		assert.Equal(t, "api_token", missing.Key)
		assert.Contains(t, err.Error(), "key 'api_token' not found in config for environment 'uat' or 'default'")
	})

	t.Run("no default section at all", func(t *testing.T) {
		c := NewDefaultConfig()
		c.Environments = map[string]map[string]string{"uat": {"base_url": "x"}}
		_, err := c.Lookup("prod", "base_url")
		assert.ErrorIs(t, err, ErrConfigurationMissing)
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		yamlConfig := []byte(`
logger:
  level: "debug"
browser:
  headless: true
  timeout: "3s"
  poll_interval: "100ms"
report:
  formats: ["html", "junit"]
environments:
  default:
    base_url: "https://default.example"
  uat:
    base_url: "https://uat.example"
    retries: 3
`)
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logger().Level)
		assert.True(t, cfg.Browser().Headless)
		assert.Equal(t, 3*time.Second, cfg.Browser().Timeout)
		assert.Equal(t, 100*time.Millisecond, cfg.Browser().PollInterval)
		assert.Equal(t, []string{"html", "junit"}, cfg.Report().Formats)

		got, err := cfg.BaseURL("uat")
		require.NoError(t, err)
		assert.Equal(t, "https://uat.example", got)

		// Non-string scalars are weakly decoded into strings.
		retries, err := cfg.Lookup("uat", "retries")
		require.NoError(t, err)
		assert.Equal(t, "3", retries)
	})

	t.Run("Validation failure is surfaced", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("run.scope", "everything")

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("Home paths are expanded", func(t *testing.T) {
		home, err := homedir.Dir()
		if err != nil {
			t.Skipf("no home directory available: %v", err)
		}
		v := viper.New()
		SetDefaults(v)
		v.Set("report.dir", "~/pagepilot-reports")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "pagepilot-reports"), cfg.Report().Dir)
	})
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SetBrowserHeadless(true)
	cfg.SetBrowserTimeout(2 * time.Second)
	cfg.SetRunEnv("uat")
	cfg.SetRunScope(ScopeScenario)
	cfg.SetRunDataFile("data.csv")
	cfg.SetReportDir("out")
	cfg.SetReportFormats([]string{"json"})

	assert.True(t, cfg.Browser().Headless)
	assert.Equal(t, 2*time.Second, cfg.Browser().Timeout)
	assert.Equal(t, "uat", cfg.Run().Env)
	assert.Equal(t, ScopeScenario, cfg.Run().Scope)
	assert.Equal(t, "data.csv", cfg.Run().DataFile)
	assert.Equal(t, "out", cfg.Report().Dir)
	assert.Equal(t, []string{"json"}, cfg.Report().Formats)
}

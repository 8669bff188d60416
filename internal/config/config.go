package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "SICKSCAN"
	appDir    = ".sickscan"
)

type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
	Fixture FixtureConfig `mapstructure:"fixture"`
}

type ServiceConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	// File receives log output. "-" means stderr.
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type UIConfig struct {
	ApplyStaleResponses bool `mapstructure:"apply_stale_responses"`
	ASCII               bool `mapstructure:"ascii"`
}

type FixtureConfig struct {
	Addr string `mapstructure:"addr"`
	File string `mapstructure:"file"`
}

// LoadConfig reads defaults, then the config file, then SICKSCAN_* env vars.
// A missing file at the default location is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = getDefaultConfigPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func getDefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, appDir, "config.yaml")
}

func defaultLogPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, appDir, "sickscan.log")
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("service.url", d.Service.URL)
	v.SetDefault("service.timeout", d.Service.Timeout)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("ui.apply_stale_responses", d.UI.ApplyStaleResponses)
	v.SetDefault("ui.ascii", d.UI.ASCII)
	v.SetDefault("fixture.addr", d.Fixture.Addr)
	v.SetDefault("fixture.file", d.Fixture.File)
}

func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			URL: "http://localhost:5000",
		},
		Log: LogConfig{
			File:  defaultLogPath(),
			Level: "info",
		},
		Fixture: FixtureConfig{
			Addr: ":5000",
		},
	}
}

// Validate checks the values the client cannot start without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service.url must be an http(s) URL, got %q", c.Service.URL)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("service.timeout must not be negative, got %s", c.Service.Timeout)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

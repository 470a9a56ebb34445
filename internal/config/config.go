// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"errors"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port int `mapstructure:"port"`
	API  struct {
		// BaseURL is the collection backend the listing and import calls go to.
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
		// MinVersion is a semver constraint the backend version must satisfy.
		MinVersion string `mapstructure:"min_version"`
	} `mapstructure:"api"`
	State struct {
		Path string `mapstructure:"path"`
		// FlushInterval is in seconds. 0 writes state through on every change.
		FlushInterval int `mapstructure:"flush_interval"`
	} `mapstructure:"state"`
	// BackendCheckInterval is in minutes. 0 disables the scheduled check.
	BackendCheckInterval int `mapstructure:"backend_check_interval"`
	Log                  struct {
		Env   string `mapstructure:"env"`
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Timeout returns the outbound request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	src, err := Open()
	if err != nil {
		return nil, err
	}
	return src.Config(), nil
}

func setup(v *viper.Viper) error {
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")    // or "yaml"
	v.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// e.g., COINSTACK_API_BASE_URL will override the `api.base_url` key.
	v.SetEnvPrefix("COINSTACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return err
		}
		// Config file not found; use defaults
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8090)
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("api.min_version", ">= 1.0.0")
	v.SetDefault("state.path", "./coinstack-state.db")
	v.SetDefault("state.flush_interval", 2)
	v.SetDefault("backend_check_interval", 30)
	v.SetDefault("log.env", "dev")
	v.SetDefault("log.level", "")
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Source is a loaded configuration that can go on watching config.yml.
type Source struct {
	v   *viper.Viper
	cfg *Config
}

// Open reads the configuration once. Nothing is watched until Watch is
// called, so callers can finish setting up first.
func Open() (*Source, error) {
	v := viper.New()
	if err := setup(v); err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Source{v: v, cfg: cfg}, nil
}

// Config returns the configuration as it was when Open ran.
func (s *Source) Config() *Config { return s.cfg }

// Watch re-decodes the configuration every time config.yml changes on
// disk. onChange receives the freshly decoded config; decode failures are
// passed to onError and the previous config stays in effect.
func (s *Source) Watch(onChange func(*Config), onError func(error)) {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		updated, err := decode(s.v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(updated)
	})
	s.v.WatchConfig()
}

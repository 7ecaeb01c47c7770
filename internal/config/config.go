package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hochfrequenz/appcenter-builds/internal/appcenter"
	"github.com/hochfrequenz/appcenter-builds/internal/buildconfig"
	"github.com/pelletier/go-toml/v2"
)

// LocalConfigName is looked up in the working directory and its parents
const LocalConfigName = ".appcenter-builds.toml"

// Config holds all application configuration
type Config struct {
	AppCenter     AppCenterConfig     `toml:"appcenter"`
	Build         BuildConfig         `toml:"build"`
	Notifications NotificationsConfig `toml:"notifications"`
	Log           LogConfig           `toml:"log"`
}

// AppCenterConfig holds API access settings
type AppCenterConfig struct {
	Token           string   `toml:"token"`
	AppName         string   `toml:"app_name"`
	OwnerName       string   `toml:"owner_name"`
	APIURL          string   `toml:"api_url"`
	WebURL          string   `toml:"web_url"`
	IncludeInactive bool     `toml:"include_inactive"`
	RequestTimeout  Duration `toml:"request_timeout"`
}

// BuildConfig holds settings for starting builds
type BuildConfig struct {
	ConfigFile string `toml:"config_file"`
}

// NotificationsConfig holds notification settings
type NotificationsConfig struct {
	Desktop      bool   `toml:"desktop"`
	SlackWebhook string `toml:"slack_webhook"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "30s"
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		AppCenter: AppCenterConfig{
			APIURL:          appcenter.DefaultAPIURL,
			WebURL:          appcenter.DefaultWebURL,
			IncludeInactive: true,
		},
		Build: BuildConfig{
			ConfigFile: buildconfig.DefaultPath,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Build.ConfigFile = ExpandPath(cfg.Build.ConfigFile)

	return cfg, nil
}

// LoadWithLocalFallback loads path if given, otherwise the nearest local
// config file, otherwise the default location.
func LoadWithLocalFallback(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if local := FindLocalConfig(); local != "" {
		return Load(local)
	}
	return Load(DefaultConfigPath())
}

// FindLocalConfig walks up from the working directory looking for
// LocalConfigName. It returns "" when there is none.
func FindLocalConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, LocalConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "appcenter-builds", "config.toml")
}

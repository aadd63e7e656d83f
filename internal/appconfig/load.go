package appconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. UMIDOC_ENDPOINT or
// UMIDOC_WORKSPACE_MAX_ATTEMPTS.
const EnvPrefix = "UMIDOC"

// Load reads configuration from the provided path. If path is empty, uses
// DefaultConfigPath. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("endpoint", cfg.Endpoint)
	v.SetDefault("request_timeout_seconds", cfg.RequestTimeoutSeconds)
	v.SetDefault("workspace.tab_name", cfg.Workspace.TabName)
	v.SetDefault("workspace.page_type", cfg.Workspace.PageType)
	v.SetDefault("workspace.max_attempts", cfg.Workspace.MaxAttempts)
	v.SetDefault("workspace.settle_delay_ms", cfg.Workspace.SettleDelayMS)
	v.SetDefault("workspace.verify_delay_ms", cfg.Workspace.VerifyDelayMS)
	v.SetDefault("output.suffix", cfg.Output.Suffix)
	v.SetDefault("output.extension", cfg.Output.Extension)
	v.SetDefault("watch.poll_interval_ms", cfg.Watch.PollIntervalMS)
	v.SetDefault("watch.notify", cfg.Watch.Notify)
	v.SetDefault("mock.addr", cfg.Mock.Addr)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	} else if v.GetInt("config_version") != CurrentConfigVersion {
		return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that cfg can drive a workflow.
func Validate(cfg Config) error {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	parsed, err := url.Parse(endpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("endpoint must be an http(s) URL with host (e.g. http://127.0.0.1:1224/argv)")
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds must not be negative")
	}
	if strings.TrimSpace(cfg.Workspace.TabName) == "" {
		return fmt.Errorf("workspace.tab_name is required")
	}
	if strings.TrimSpace(cfg.Workspace.PageType) == "" {
		return fmt.Errorf("workspace.page_type is required")
	}
	if cfg.Workspace.MaxAttempts < 1 {
		return fmt.Errorf("workspace.max_attempts must be at least 1")
	}
	if cfg.Workspace.SettleDelayMS <= 0 {
		return fmt.Errorf("workspace.settle_delay_ms must be positive")
	}
	if cfg.Workspace.VerifyDelayMS <= 0 {
		return fmt.Errorf("workspace.verify_delay_ms must be positive")
	}
	if !strings.HasPrefix(cfg.Output.Extension, ".") {
		return fmt.Errorf("output.extension must start with a dot")
	}
	if cfg.Watch.PollIntervalMS <= 0 {
		return fmt.Errorf("watch.poll_interval_ms must be positive")
	}
	return nil
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

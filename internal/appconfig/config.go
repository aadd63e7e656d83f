package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"pkt.systems/umidoc/internal/umiclient"
	"pkt.systems/umidoc/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion         int             `mapstructure:"config_version" yaml:"config_version"`
	Endpoint              string          `mapstructure:"endpoint" yaml:"endpoint"`
	RequestTimeoutSeconds int             `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	Workspace             WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
	Output                OutputConfig    `mapstructure:"output" yaml:"output"`
	Watch                 WatchConfig     `mapstructure:"watch" yaml:"watch"`
	Mock                  MockConfig      `mapstructure:"mock" yaml:"mock"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// WorkspaceConfig controls the batch document tab handling.
type WorkspaceConfig struct {
	TabName       string `mapstructure:"tab_name" yaml:"tab_name"`
	PageType      string `mapstructure:"page_type" yaml:"page_type"`
	MaxAttempts   int    `mapstructure:"max_attempts" yaml:"max_attempts"`
	SettleDelayMS int    `mapstructure:"settle_delay_ms" yaml:"settle_delay_ms"`
	VerifyDelayMS int    `mapstructure:"verify_delay_ms" yaml:"verify_delay_ms"`
}

// OutputConfig controls how the output path is derived from the input path.
type OutputConfig struct {
	Suffix    string `mapstructure:"suffix" yaml:"suffix"`
	Extension string `mapstructure:"extension" yaml:"extension"`
}

// WatchConfig controls the completion watcher.
type WatchConfig struct {
	PollIntervalMS int  `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
	Notify         bool `mapstructure:"notify" yaml:"notify"`
}

// MockConfig controls the mock control endpoint.
type MockConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion:         CurrentConfigVersion,
		Endpoint:              umiclient.DefaultEndpoint,
		RequestTimeoutSeconds: 30,
		Workspace: WorkspaceConfig{
			TabName:       schema.DefaultTabName,
			PageType:      schema.DefaultPageType,
			MaxAttempts:   schema.DefaultMaxAttempts,
			SettleDelayMS: int(schema.DefaultSettleDelay / time.Millisecond),
			VerifyDelayMS: int(schema.DefaultVerifyDelay / time.Millisecond),
		},
		Output: OutputConfig{
			Suffix:    schema.DefaultOutputSuffix,
			Extension: schema.DefaultOutputExtension,
		},
		Watch: WatchConfig{
			PollIntervalMS: 1000,
			Notify:         true,
		},
		Mock: MockConfig{
			Addr: "127.0.0.1:1224",
		},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".umidoc", "config.yaml"), nil
}

// Workflow converts the config into the core workflow settings.
func (c Config) Workflow() schema.WorkflowConfig {
	return schema.WorkflowConfig{
		TabName:         c.Workspace.TabName,
		PageType:        c.Workspace.PageType,
		MaxAttempts:     c.Workspace.MaxAttempts,
		SettleDelay:     time.Duration(c.Workspace.SettleDelayMS) * time.Millisecond,
		VerifyDelay:     time.Duration(c.Workspace.VerifyDelayMS) * time.Millisecond,
		OutputSuffix:    c.Output.Suffix,
		OutputExtension: c.Output.Extension,
	}
}

// RequestTimeout returns the per-request HTTP timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// PollInterval returns the completion watcher poll interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Watch.PollIntervalMS) * time.Millisecond
}

package schema

import (
	"errors"
	"strings"
	"time"
)

// WorkflowConfig defines the naming conventions and timing of one document run.
type WorkflowConfig struct {
	TabName         string
	PageType        string
	MaxAttempts     int
	SettleDelay     time.Duration
	VerifyDelay     time.Duration
	OutputSuffix    string
	OutputExtension string
}

// Default workflow timing.
const (
	DefaultMaxAttempts = 3
	DefaultSettleDelay = time.Second
	DefaultVerifyDelay = time.Second
)

// NormalizeWorkflowConfig applies defaults and validates the config.
func NormalizeWorkflowConfig(cfg WorkflowConfig) (WorkflowConfig, error) {
	cfg.TabName = strings.TrimSpace(cfg.TabName)
	if cfg.TabName == "" {
		cfg.TabName = DefaultTabName
	}
	if strings.TrimSpace(cfg.PageType) == "" {
		cfg.PageType = DefaultPageType
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.VerifyDelay <= 0 {
		cfg.VerifyDelay = DefaultVerifyDelay
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = DefaultOutputSuffix
	}
	if cfg.OutputExtension == "" {
		cfg.OutputExtension = DefaultOutputExtension
	}
	if strings.ContainsAny(cfg.TabName, " \t\r\n") {
		return WorkflowConfig{}, errors.New("tab name must not contain whitespace")
	}
	if !strings.HasPrefix(cfg.OutputExtension, ".") {
		return WorkflowConfig{}, errors.New("output extension must start with a dot")
	}
	if strings.ContainsAny(cfg.OutputSuffix+cfg.OutputExtension, `/\`) {
		return WorkflowConfig{}, errors.New("output suffix and extension must not contain path separators")
	}
	return cfg, nil
}

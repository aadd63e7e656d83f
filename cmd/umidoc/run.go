package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/core"
	"pkt.systems/umidoc/internal/appconfig"
	"pkt.systems/umidoc/internal/umiclient"
	"pkt.systems/umidoc/internal/watch"
)

func newRunCmd() *cobra.Command {
	var cfgPath string
	var docPath string
	var endpoint string
	var timeout time.Duration
	var noNotify bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process one document and wait for its layered PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath, endpoint)
			if err != nil {
				return err
			}
			if noNotify {
				cfg.Watch.Notify = false
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			workflow, err := newWorkflow(ctx, cfg)
			if err != nil {
				return err
			}
			result, err := workflow.Run(ctx, docPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Output)
			return err
		},
	}
	cmd.Flags().StringVarP(&docPath, "path", "p", "", "path to the document to process")
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "control endpoint URL (overrides config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall deadline for the run (0 waits forever)")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "poll only; disable filesystem notifications")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func loadConfig(path, endpoint string) (appconfig.Config, error) {
	cfg, err := appconfig.Load(path)
	if err != nil {
		return appconfig.Config{}, err
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
		if err := appconfig.Validate(cfg); err != nil {
			return appconfig.Config{}, err
		}
	}
	return cfg, nil
}

func newClient(cfg appconfig.Config) *umiclient.Client {
	return umiclient.New(umiclient.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.RequestTimeout(),
	})
}

func newWorkflow(ctx context.Context, cfg appconfig.Config) (*core.Workflow, error) {
	return core.NewWorkflow(cfg.Workflow(), core.Deps{
		Sender: newClient(cfg),
		Watcher: watch.New(watch.Config{
			Interval: cfg.PollInterval(),
			Notify:   cfg.Watch.Notify,
		}),
		Logger: pslog.Ctx(ctx).With("endpoint", cfg.Endpoint),
	})
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/core"
	"pkt.systems/umidoc/internal/tabs"
)

func newTabsCmd() *cobra.Command {
	var cfgPath string
	var endpoint string
	var closeStale bool
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "Show open tabs and the stale batch document tabs among them",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := loadConfig(cfgPath, endpoint)
			if err != nil {
				return err
			}
			workspace, err := core.NewWorkspace(cfg.Workflow(), newClient(cfg), nil)
			if err != nil {
				return err
			}
			if closeStale {
				closed, err := workspace.CloseStale(cmd.Context())
				if err != nil {
					return err
				}
				logger.Info("stale tabs closed", "count", len(closed), "indices", fmt.Sprint(closed))
			}
			listing, err := workspace.Listing(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprint(out, listing); err != nil {
				return err
			}
			tabName := cfg.Workflow().TabName
			stale := tabs.CloseOrder(tabs.StaleIndices(listing, tabName))
			_, err = fmt.Fprintf(out, "\n%s tabs (close order): %v\n", tabName, stale)
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "control endpoint URL (overrides config)")
	cmd.Flags().BoolVar(&closeStale, "close-stale", false, "close stale batch document tabs before listing")
	return cmd
}

package main

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/httpapi"
	"pkt.systems/umidoc/internal/appconfig"
	"pkt.systems/umidoc/internal/umimock"
)

func newMockCmd() *cobra.Command {
	var cfgPath string
	var addr string
	var tabDelay int
	var processDelay time.Duration
	var seedTabs []string
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve a mock Umi-OCR control endpoint for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Mock.Addr
			}
			endpoint, err := url.Parse(cfg.Endpoint)
			if err != nil {
				return fmt.Errorf("parse endpoint: %w", err)
			}
			wf := cfg.Workflow()
			server := umimock.New(umimock.Config{
				TabName:         wf.TabName,
				PageType:        wf.PageType,
				OutputSuffix:    wf.OutputSuffix,
				OutputExtension: wf.OutputExtension,
				TabDelay:        tabDelay,
				ProcessDelay:    processDelay,
				Tabs:            seedTabs,
			})
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("mock control endpoint listening", "addr", ln.Addr().String(), "path", endpoint.Path)
			err = httpapi.Serve(cmd.Context(), ln, httpapi.NewHandler(endpoint.Path, server))
			server.Wait()
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to mock.addr)")
	cmd.Flags().IntVar(&tabDelay, "tab-delay", 1, "listings before a new tab becomes visible")
	cmd.Flags().DurationVar(&processDelay, "process-delay", 2*time.Second, "delay before output files are written")
	cmd.Flags().StringSliceVar(&seedTabs, "tab", []string{"ScreenshotOCR_1"}, "initial tab names")
	return cmd
}

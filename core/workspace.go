package core

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/internal/logx"
	"pkt.systems/umidoc/internal/tabs"
	"pkt.systems/umidoc/internal/umiclient"
	"pkt.systems/umidoc/schema"
)

// Workspace manages the batch document tabs of the OCR application. It never
// caches tab indices; every decision is made from a fresh listing.
type Workspace struct {
	cfg    schema.WorkflowConfig
	sender umiclient.Sender
	sleep  SleepFunc
}

// NewWorkspace constructs a Workspace.
func NewWorkspace(cfg schema.WorkflowConfig, sender umiclient.Sender, sleep SleepFunc) (*Workspace, error) {
	normalized, err := schema.NormalizeWorkflowConfig(cfg)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, errors.New("workspace: sender is required")
	}
	if sleep == nil {
		sleep = Sleep
	}
	return &Workspace{cfg: normalized, sender: sender, sleep: sleep}, nil
}

// Listing fetches the current tab listing.
func (w *Workspace) Listing(ctx context.Context) (string, error) {
	return w.sender.Send(ctx, schema.ListTabs())
}

// Reset closes every stale tab, opens a fresh one and waits until it is
// visible in the listing.
func (w *Workspace) Reset(ctx context.Context) error {
	if _, err := w.CloseStale(ctx); err != nil {
		return err
	}
	if err := w.Open(ctx); err != nil {
		return err
	}
	return w.Verify(ctx)
}

// CloseStale closes all tabs named after the workspace tab, highest index
// first, and returns the indices it closed in that order.
func (w *Workspace) CloseStale(ctx context.Context) ([]schema.TabIndex, error) {
	listing, err := w.Listing(ctx)
	if err != nil {
		return nil, err
	}
	order := tabs.CloseOrder(tabs.StaleIndices(listing, w.cfg.TabName))
	for _, index := range order {
		log := logx.WithTab(pslog.Ctx(ctx), index)
		log.Info("closing stale tab", "tab", w.cfg.TabName)
		if _, err := w.sender.Send(ctx, schema.DeleteTab(index)); err != nil {
			return nil, fmt.Errorf("close tab %d: %w", index, err)
		}
		log.Info("stale tab closed")
		if err := w.sleep(ctx, w.cfg.SettleDelay); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Open asks the application to open a new workspace tab.
func (w *Workspace) Open(ctx context.Context) error {
	log := pslog.Ctx(ctx).With("tab", w.cfg.TabName)
	log.Info("opening tab", "page_type", w.cfg.PageType)
	if _, err := w.sender.Send(ctx, schema.AddTab(w.cfg.PageType)); err != nil {
		return fmt.Errorf("open tab: %w", err)
	}
	log.Info("tab opened")
	return w.sleep(ctx, w.cfg.SettleDelay)
}

// Verify polls the listing until a "<TabName>_<n>" tab is visible, making at
// most MaxAttempts attempts.
func (w *Workspace) Verify(ctx context.Context) error {
	log := pslog.Ctx(ctx).With("tab", w.cfg.TabName)
	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		listing, err := w.Listing(ctx)
		if err != nil {
			return err
		}
		if tabs.ContainsFresh(listing, w.cfg.TabName) {
			log.Info("tab found", "attempt", attempt)
			return nil
		}
		if attempt == w.cfg.MaxAttempts {
			break
		}
		log.Info("tab not found, retrying", "attempt", attempt, "delay", w.cfg.VerifyDelay)
		if err := w.sleep(ctx, w.cfg.VerifyDelay); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s tab not found after %d attempts", schema.ErrVerificationTimeout, w.cfg.TabName, w.cfg.MaxAttempts)
}

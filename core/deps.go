package core

import (
	"context"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/internal/umiclient"
	"pkt.systems/umidoc/schema"
)

// SleepFunc pauses for d or until ctx ends.
type SleepFunc func(ctx context.Context, d time.Duration) error

// OutputWatcher blocks until the output file has been produced.
type OutputWatcher interface {
	Wait(ctx context.Context, path schema.OutputPath) error
}

// Deps captures the collaborators of a Workflow.
type Deps struct {
	Sender  umiclient.Sender
	Watcher OutputWatcher
	// Sleep defaults to Sleep.
	Sleep  SleepFunc
	Logger pslog.Logger
}

// Sleep waits for d, returning early with ctx.Err() if ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

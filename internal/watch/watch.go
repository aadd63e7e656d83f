// Package watch detects that the OCR application has produced or refreshed
// an output file by observing the filesystem.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/internal/logx"
	"pkt.systems/umidoc/schema"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = time.Second

// StatFunc returns file metadata, matching os.Stat.
type StatFunc func(name string) (fs.FileInfo, error)

// WaitFunc blocks until the next poll is due or ctx ends.
type WaitFunc func(ctx context.Context) error

// Config configures a Watcher.
type Config struct {
	Interval time.Duration
	// Notify watches the output directory and holds the next stat until
	// the directory has been quiet for one Interval, so an output that is
	// still being written is not reported complete. A busy directory delays
	// the poll for as long as events keep arriving. Completion is still
	// decided by stat.
	Notify bool
	Stat   StatFunc
	// Wait replaces the interval sleep. Used by tests.
	Wait WaitFunc
}

// Watcher waits for an output file to appear or be overwritten.
type Watcher struct {
	interval time.Duration
	notify   bool
	stat     StatFunc
	wait     WaitFunc
}

// New constructs a Watcher.
func New(cfg Config) *Watcher {
	w := &Watcher{
		interval: cfg.Interval,
		notify:   cfg.Notify,
		stat:     cfg.Stat,
		wait:     cfg.Wait,
	}
	if w.interval <= 0 {
		w.interval = DefaultInterval
	}
	if w.stat == nil {
		w.stat = os.Stat
	}
	return w
}

// Wait blocks until path is produced. If path exists when Wait starts,
// completion is a later poll observing a different modification time;
// otherwise completion is the first poll observing the file. There is no
// timeout; cancel ctx to give up.
func (w *Watcher) Wait(ctx context.Context, path schema.OutputPath) error {
	log := logx.WithOutput(pslog.Ctx(ctx), path)
	name := string(path)

	wait, closeFn := w.waiter(ctx, log, name)
	defer closeFn()

	info, err := w.stat(name)
	switch {
	case err == nil:
		last := info.ModTime()
		log.Info("waiting for output to be overwritten", "modified", last)
		return w.waitModified(ctx, log, name, last, wait)
	case errors.Is(err, fs.ErrNotExist):
		log.Info("waiting for output to exist")
		return w.waitExists(ctx, log, name, wait)
	default:
		return fmt.Errorf("%w: stat %s: %w", schema.ErrFilesystem, name, err)
	}
}

func (w *Watcher) waitModified(ctx context.Context, log pslog.Logger, name string, last time.Time, wait WaitFunc) error {
	for {
		if err := wait(ctx); err != nil {
			return err
		}
		info, err := w.stat(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("output missing during overwrite")
				continue
			}
			return fmt.Errorf("%w: stat %s: %w", schema.ErrFilesystem, name, err)
		}
		if !info.ModTime().Equal(last) {
			log.Info("output overwritten", "modified", info.ModTime())
			return nil
		}
	}
}

func (w *Watcher) waitExists(ctx context.Context, log pslog.Logger, name string, wait WaitFunc) error {
	for {
		if err := wait(ctx); err != nil {
			return err
		}
		_, err := w.stat(name)
		if err == nil {
			log.Info("output detected")
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: stat %s: %w", schema.ErrFilesystem, name, err)
		}
	}
}

func (w *Watcher) waiter(ctx context.Context, log pslog.Logger, name string) (WaitFunc, func()) {
	if w.wait != nil {
		return w.wait, func() {}
	}
	if !w.notify {
		return sleeper(w.interval), func() {}
	}
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("filesystem notifications unavailable", "err", err)
		return sleeper(w.interval), func() {}
	}
	dir := filepath.Dir(filepath.FromSlash(name))
	if err := notifier.Add(dir); err != nil {
		_ = notifier.Close()
		log.Warn("filesystem notifications unavailable", "dir", dir, "err", err)
		return sleeper(w.interval), func() {}
	}
	log.Debug("filesystem notifications enabled", "dir", dir)
	return notifyWaiter(w.interval, notifier.Events, notifier.Errors), func() { _ = notifier.Close() }
}

func sleeper(interval time.Duration) WaitFunc {
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

// notifyWaiter returns after interval when no events arrive. Once an event
// is seen, it returns only after interval has passed without another one.
func notifyWaiter(interval time.Duration, events <-chan fsnotify.Event, errs <-chan error) WaitFunc {
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			case _, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				timer.Reset(interval)
			case _, ok := <-errs:
				if !ok {
					errs = nil
				}
			}
		}
	}
}

package core

import (
	"context"
	"errors"
	"time"

	"pkt.systems/umidoc/schema"
)

// fakeSender records commands and answers tab listings from a script.
type fakeSender struct {
	listings []string
	listed   int
	commands []schema.Command
	failOn   string
	failErr  error
}

func (f *fakeSender) Send(ctx context.Context, cmd schema.Command) (string, error) {
	f.commands = append(f.commands, cmd)
	if f.failOn != "" && cmd.Name() == f.failOn {
		return "", f.failErr
	}
	if cmd.Name() != schema.FlagAllPages {
		return "ok", nil
	}
	if len(f.listings) == 0 {
		return "", nil
	}
	idx := f.listed
	if idx >= len(f.listings) {
		idx = len(f.listings) - 1
	}
	f.listed++
	return f.listings[idx], nil
}

func (f *fakeSender) names() []string {
	out := make([]string, 0, len(f.commands))
	for _, cmd := range f.commands {
		out = append(out, cmd.String())
	}
	return out
}

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

type fakeWatcher struct {
	paths []schema.OutputPath
	err   error
}

func (f *fakeWatcher) Wait(ctx context.Context, path schema.OutputPath) error {
	f.paths = append(f.paths, path)
	return f.err
}

var errBoom = errors.New("boom")

func testConfig() schema.WorkflowConfig {
	return schema.WorkflowConfig{
		SettleDelay: 10 * time.Millisecond,
		VerifyDelay: 20 * time.Millisecond,
	}
}

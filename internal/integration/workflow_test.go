package integration_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"pkt.systems/umidoc/internal/umimock"
	"pkt.systems/umidoc/schema"
)

func TestWorkflowAgainstMockProducesOutput(t *testing.T) {
	requireLong(t)
	env := newTestEnv(t, umimock.Config{
		TabDelay:     1,
		ProcessDelay: 50 * time.Millisecond,
		Tabs:         []string{"ScreenshotOCR_1", "BatchDOC_1", "BatchOCR_1", "BatchDOC_2"},
	})
	dir := t.TempDir()
	doc := filepath.Join(dir, "report.pdf")

	result, err := env.workflow.Run(testContext(t), doc)
	if err != nil {
		t.Fatalf("run: %v\nlogs:\n%s", err, env.logs.String())
	}
	want := schema.OutputPath(filepath.ToSlash(filepath.Join(dir, "report.layered.pdf")))
	if result.Output != want {
		t.Fatalf("output = %q, want %q", result.Output, want)
	}
	if _, err := os.Stat(filepath.FromSlash(string(result.Output))); err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	var deletes []string
	for _, cmd := range env.mock.Commands() {
		if cmd.Name() == schema.FlagDelPage {
			deletes = append(deletes, cmd[1])
		}
	}
	if !slices.Equal(deletes, []string{"3", "1"}) {
		t.Fatalf("expected close(3) then close(1), got %v", deletes)
	}
	if got := env.mock.Tabs(); !slices.Equal(got, []string{"ScreenshotOCR_1", "BatchOCR_1", "BatchDOC_3"}) {
		t.Fatalf("unexpected tabs after run: %v", got)
	}
}

func TestWorkflowAgainstMockDetectsOverwrite(t *testing.T) {
	requireLong(t)
	env := newTestEnv(t, umimock.Config{ProcessDelay: 50 * time.Millisecond})
	dir := t.TempDir()
	out := filepath.Join(dir, "scan.layered.pdf")
	if err := os.WriteFile(out, []byte("stale"), 0o600); err != nil {
		t.Fatalf("write stale output: %v", err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(out, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := env.workflow.Run(testContext(t), filepath.Join(dir, "scan.png")); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) == "stale" {
		t.Fatalf("expected output to be overwritten")
	}
}

func TestWorkflowAgainstMockVerificationTimeout(t *testing.T) {
	requireLong(t)
	env := newTestEnv(t, umimock.Config{TabDelay: 10})

	_, err := env.workflow.Run(testContext(t), filepath.Join(t.TempDir(), "scan.png"))
	if !errors.Is(err, schema.ErrVerificationTimeout) {
		t.Fatalf("expected verification timeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "not found after 3 attempts") {
		t.Fatalf("expected clear timeout message, got %v", err)
	}
	listings := 0
	for _, cmd := range env.mock.Commands() {
		if cmd.Name() == schema.FlagCallQML {
			t.Fatalf("did not expect submission after verification timeout")
		}
		if cmd.Name() == schema.FlagAllPages {
			listings++
		}
	}
	if listings != 4 {
		t.Fatalf("expected 1 stale listing and 3 verify attempts, got %d listings", listings)
	}
}

func TestClientAgainstMockRejectsUnknownCommand(t *testing.T) {
	env := newTestEnv(t, umimock.Config{})
	_, err := env.client.Send(testContext(t), schema.Command{"--nope"})
	if !errors.Is(err, schema.ErrTransport) {
		t.Fatalf("expected transport error for 400 reply, got %v", err)
	}
}

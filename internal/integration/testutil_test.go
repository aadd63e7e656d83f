package integration_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/core"
	"pkt.systems/umidoc/httpapi"
	"pkt.systems/umidoc/internal/umiclient"
	"pkt.systems/umidoc/internal/umimock"
	"pkt.systems/umidoc/internal/watch"
	"pkt.systems/umidoc/schema"
)

type testEnv struct {
	mock     *umimock.Server
	client   *umiclient.Client
	workflow *core.Workflow
	logs     *bytes.Buffer
}

func newTestEnv(t *testing.T, mockCfg umimock.Config) *testEnv {
	t.Helper()
	mock := umimock.New(mockCfg)
	server := httptest.NewServer(httpapi.NewHandler(httpapi.DefaultControlPath, mock))
	t.Cleanup(func() {
		server.Close()
		mock.Wait()
	})

	logs := &bytes.Buffer{}
	logger := pslog.NewWithOptions(logs, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.DebugLevel,
		VerboseFields: true,
	})
	client := umiclient.New(umiclient.Config{
		Endpoint: server.URL + httpapi.DefaultControlPath,
		Timeout:  5 * time.Second,
	})
	workflow, err := core.NewWorkflow(schema.WorkflowConfig{
		SettleDelay: 5 * time.Millisecond,
		VerifyDelay: 5 * time.Millisecond,
	}, core.Deps{
		Sender:  client,
		Watcher: watch.New(watch.Config{Interval: 10 * time.Millisecond, Notify: true}),
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("new workflow: %v", err)
	}
	return &testEnv{mock: mock, client: client, workflow: workflow, logs: logs}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func requireLong(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

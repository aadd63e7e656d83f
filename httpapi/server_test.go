package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pkt.systems/pslog"
)

func TestNewHandlerRoutesControlPath(t *testing.T) {
	control := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(NewHandler("argv", control))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/argv", "application/json", strings.NewReader(`["--all_pages"]`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}

	resp, err = http.Post(srv.URL+"/other", "application/json", strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRequestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := pslog.NewWithOptions(&buf, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	handler := withRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodPost, "/argv", nil)
	req = req.WithContext(pslog.ContextWithLogger(context.Background(), logger))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := bytes.TrimSpace(buf.Bytes())
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v (%s)", err, line)
	}
	if entry["path"] != "/argv" {
		t.Fatalf("expected path field, got %+v", entry)
	}
	if status, ok := entry["status"].(float64); !ok || int(status) != http.StatusTeapot {
		t.Fatalf("expected status field, got %+v", entry)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(ctx, ln, NewHandler("", http.NotFoundHandler()))
	}()

	resp, err := http.Post("http://"+ln.Addr().String()+DefaultControlPath, "application/json", strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}

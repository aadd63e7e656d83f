// Package umimock emulates the subset of the Umi-OCR control endpoint used
// by umidoc: tab listing, opening and closing tabs, and the batch document
// addDocs/docStart calls.
package umimock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/schema"
)

// Config configures the mock application.
type Config struct {
	TabName         string
	PageType        string
	OutputSuffix    string
	OutputExtension string
	// TabDelay hides a newly opened tab from this many listings.
	TabDelay int
	// ProcessDelay postpones writing output files after docStart.
	ProcessDelay time.Duration
	// Tabs seeds the initial tab names, e.g. "ScreenshotOCR_1".
	Tabs []string
}

type mockTab struct {
	name   string
	hidden int
}

// Server is an http.Handler that behaves like the control endpoint.
type Server struct {
	cfg      Config
	mu       sync.Mutex
	tabs     []mockTab
	counters map[string]int
	queued   []string
	commands []schema.Command
	pending  sync.WaitGroup
}

// New constructs a mock Server.
func New(cfg Config) *Server {
	if cfg.TabName == "" {
		cfg.TabName = schema.DefaultTabName
	}
	if cfg.PageType == "" {
		cfg.PageType = schema.DefaultPageType
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = schema.DefaultOutputSuffix
	}
	if cfg.OutputExtension == "" {
		cfg.OutputExtension = schema.DefaultOutputExtension
	}
	s := &Server{cfg: cfg, counters: map[string]int{}}
	for _, name := range cfg.Tabs {
		s.tabs = append(s.tabs, mockTab{name: name})
		base, n, ok := splitTabName(name)
		if ok && n > s.counters[base] {
			s.counters[base] = n
		}
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var cmd schema.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "command must be a JSON array of strings", http.StatusBadRequest)
		return
	}
	log := pslog.Ctx(r.Context()).With("command", cmd.Name())
	out, err := s.Handle(cmd)
	if err != nil {
		log.Warn("mock command rejected", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Debug("mock command handled")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// Handle executes one command and returns the textual reply.
func (s *Server) Handle(cmd schema.Command) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, slices.Clone(cmd))
	switch cmd.Name() {
	case schema.FlagAllPages:
		return s.listLocked(), nil
	case schema.FlagAddPage:
		if len(cmd) != 2 {
			return "", fmt.Errorf("%w: %s takes one argument", schema.ErrInvalidCommand, schema.FlagAddPage)
		}
		return s.addLocked(cmd[1]), nil
	case schema.FlagDelPage:
		if len(cmd) != 2 {
			return "", fmt.Errorf("%w: %s takes one argument", schema.ErrInvalidCommand, schema.FlagDelPage)
		}
		return s.deleteLocked(cmd[1])
	case schema.FlagCallQML:
		return s.callLocked(cmd)
	default:
		return "", fmt.Errorf("%w: unknown command %q", schema.ErrInvalidCommand, cmd.Name())
	}
}

// Tabs returns the names of all open tabs, including hidden ones.
func (s *Server) Tabs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tabs))
	for _, tab := range s.tabs {
		out = append(out, tab.name)
	}
	return out
}

// Commands returns every command received so far.
func (s *Server) Commands() []schema.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.commands)
}

// Wait blocks until all scheduled output files have been written.
func (s *Server) Wait() {
	s.pending.Wait()
}

func (s *Server) listLocked() string {
	var b strings.Builder
	b.WriteString("Tab page list:\n")
	for i := range s.tabs {
		if s.tabs[i].hidden > 0 {
			s.tabs[i].hidden--
			continue
		}
		fmt.Fprintf(&b, "%d\t%s\n", i, s.tabs[i].name)
	}
	return b.String()
}

func (s *Server) addLocked(pageType string) string {
	base := "Page" + pageType
	if pageType == s.cfg.PageType {
		base = s.cfg.TabName
	}
	s.counters[base]++
	name := fmt.Sprintf("%s_%d", base, s.counters[base])
	s.tabs = append(s.tabs, mockTab{name: name, hidden: s.cfg.TabDelay})
	return fmt.Sprintf("Added tab %s at index %d\n", name, len(s.tabs)-1)
}

func (s *Server) deleteLocked(raw string) (string, error) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 || index >= len(s.tabs) {
		return "", fmt.Errorf("%w: no tab at index %q", schema.ErrInvalidCommand, raw)
	}
	name := s.tabs[index].name
	s.tabs = slices.Delete(s.tabs, index, index+1)
	return fmt.Sprintf("Deleted tab %s\n", name), nil
}

func (s *Server) callLocked(cmd schema.Command) (string, error) {
	if len(cmd) < 4 || cmd[2] != schema.FlagFunc {
		return "", fmt.Errorf("%w: expected %s <name> %s <func> [args]", schema.ErrInvalidCommand, schema.FlagCallQML, schema.FlagFunc)
	}
	target, fn := cmd[1], cmd[3]
	if !s.hasVisibleLocked(target) {
		return "", fmt.Errorf("%w: no %s tab is open", schema.ErrInvalidCommand, target)
	}
	switch fn {
	case schema.FuncAddDocs:
		if len(cmd) != 5 {
			return "", fmt.Errorf("%w: %s takes one JSON array argument", schema.ErrInvalidCommand, fn)
		}
		var docs []string
		if err := json.Unmarshal([]byte(cmd[4]), &docs); err != nil {
			return "", fmt.Errorf("%w: %s arguments: %w", schema.ErrInvalidCommand, fn, err)
		}
		s.queued = append(s.queued, docs...)
		return fmt.Sprintf("Queued %d documents\n", len(docs)), nil
	case schema.FuncDocStart:
		docs := s.queued
		s.queued = nil
		for _, doc := range docs {
			s.scheduleOutput(doc)
		}
		return fmt.Sprintf("Started %d documents\n", len(docs)), nil
	default:
		return "", fmt.Errorf("%w: unknown function %q", schema.ErrInvalidCommand, fn)
	}
}

func (s *Server) hasVisibleLocked(target string) bool {
	for _, tab := range s.tabs {
		if tab.hidden == 0 && strings.HasPrefix(tab.name, target+"_") {
			return true
		}
	}
	return false
}

func (s *Server) scheduleOutput(doc string) {
	out := schema.DeriveOutputPath(schema.DocumentPath(doc), s.cfg.OutputSuffix, s.cfg.OutputExtension)
	s.pending.Add(1)
	time.AfterFunc(s.cfg.ProcessDelay, func() {
		defer s.pending.Done()
		_ = writeOutput(filepath.FromSlash(string(out)))
	})
}

func writeOutput(path string) error {
	content := fmt.Sprintf("%%PDF-1.7\n%% umidoc mock output %s\n%%%%EOF\n", time.Now().UTC().Format(time.RFC3339Nano))
	return os.WriteFile(path, []byte(content), 0o644)
}

func splitTabName(name string) (string, int, bool) {
	idx := strings.LastIndexByte(name, '_')
	if idx <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return name[:idx], n, true
}

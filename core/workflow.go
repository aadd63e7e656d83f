package core

import (
	"context"
	"errors"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/internal/logx"
	"pkt.systems/umidoc/schema"
)

// Result describes a completed run.
type Result struct {
	Document schema.DocumentPath
	Output   schema.OutputPath
	Elapsed  time.Duration
}

// Workflow resets the workspace, submits one document and waits for its
// output file.
type Workflow struct {
	cfg       schema.WorkflowConfig
	workspace *Workspace
	submitter *Submitter
	watcher   OutputWatcher
	logger    pslog.Logger
}

// NewWorkflow constructs a Workflow.
func NewWorkflow(cfg schema.WorkflowConfig, deps Deps) (*Workflow, error) {
	normalized, err := schema.NormalizeWorkflowConfig(cfg)
	if err != nil {
		return nil, err
	}
	if deps.Watcher == nil {
		return nil, errors.New("workflow: output watcher is required")
	}
	workspace, err := NewWorkspace(normalized, deps.Sender, deps.Sleep)
	if err != nil {
		return nil, err
	}
	submitter, err := NewSubmitter(normalized, deps.Sender, deps.Sleep)
	if err != nil {
		return nil, err
	}
	return &Workflow{
		cfg:       normalized,
		workspace: workspace,
		submitter: submitter,
		watcher:   deps.Watcher,
		logger:    deps.Logger,
	}, nil
}

// OutputFor returns the output path the application writes for docPath.
func (w *Workflow) OutputFor(docPath string) (schema.DocumentPath, schema.OutputPath, error) {
	doc, err := schema.NormalizeDocumentPath(docPath)
	if err != nil {
		return "", "", err
	}
	return doc, schema.DeriveOutputPath(doc, w.cfg.OutputSuffix, w.cfg.OutputExtension), nil
}

// Run processes docPath end to end. Any failure aborts the remaining steps.
func (w *Workflow) Run(ctx context.Context, docPath string) (Result, error) {
	start := time.Now()
	doc, out, err := w.OutputFor(docPath)
	if err != nil {
		return Result{}, err
	}
	if w.logger != nil {
		ctx = pslog.ContextWithLogger(ctx, w.logger)
	}
	docLog := logx.WithDocument(ctx, doc)
	ctx = logx.ContextWithDocumentLogger(ctx, docLog, doc)
	log := logx.WithOutput(docLog, out)

	log.Info("workflow start")
	if err := w.workspace.Reset(ctx); err != nil {
		return Result{}, err
	}
	if err := w.submitter.Submit(ctx, doc); err != nil {
		return Result{}, err
	}
	if err := w.watcher.Wait(ctx, out); err != nil {
		return Result{}, err
	}
	result := Result{Document: doc, Output: out, Elapsed: time.Since(start)}
	log.Info("workflow complete", "elapsed_ms", result.Elapsed.Milliseconds())
	return result, nil
}

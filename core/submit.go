package core

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/internal/umiclient"
	"pkt.systems/umidoc/schema"
)

// Submitter queues a document on the workspace tab and starts processing.
type Submitter struct {
	cfg    schema.WorkflowConfig
	sender umiclient.Sender
	sleep  SleepFunc
}

// NewSubmitter constructs a Submitter.
func NewSubmitter(cfg schema.WorkflowConfig, sender umiclient.Sender, sleep SleepFunc) (*Submitter, error) {
	normalized, err := schema.NormalizeWorkflowConfig(cfg)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, errors.New("submitter: sender is required")
	}
	if sleep == nil {
		sleep = Sleep
	}
	return &Submitter{cfg: normalized, sender: sender, sleep: sleep}, nil
}

// Submit adds doc to the workspace tab, waits for the settle delay and
// starts processing. Neither step is retried: after a partial failure the
// application's state is unknown.
func (s *Submitter) Submit(ctx context.Context, doc schema.DocumentPath) error {
	log := pslog.Ctx(ctx)
	log.Info("adding document")
	if _, err := s.sender.Send(ctx, schema.CallQML(s.cfg.TabName, schema.FuncAddDocs, string(doc))); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	log.Info("document added")
	if err := s.sleep(ctx, s.cfg.SettleDelay); err != nil {
		return err
	}
	log.Info("starting document processing")
	if _, err := s.sender.Send(ctx, schema.CallQML(s.cfg.TabName, schema.FuncDocStart)); err != nil {
		return fmt.Errorf("start processing: %w", err)
	}
	log.Info("document processing started")
	return nil
}

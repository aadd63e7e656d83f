package logx

import (
	"context"
	"strings"

	"pkt.systems/pslog"
	"pkt.systems/umidoc/schema"
)

type contextKey int

const (
	documentKey contextKey = iota
)

// WithDocument annotates the logger with the document path unless the
// context already carries the same document marker.
func WithDocument(ctx context.Context, doc schema.DocumentPath) pslog.Logger {
	log := pslog.Ctx(ctx)
	if doc != "" {
		if current, ok := ctx.Value(documentKey).(schema.DocumentPath); ok && current == doc {
			return log
		}
		log = log.With("document", doc)
	}
	return log
}

// WithOutput annotates the logger with the output path when available.
func WithOutput(log pslog.Logger, out schema.OutputPath) pslog.Logger {
	if out != "" {
		log = log.With("output", out)
	}
	return log
}

// WithTab annotates the logger with a tab index.
func WithTab(log pslog.Logger, index schema.TabIndex) pslog.Logger {
	return log.With("tab_index", index)
}

// WithCommand annotates the logger with the command flag and its arguments.
func WithCommand(log pslog.Logger, cmd schema.Command) pslog.Logger {
	if name := cmd.Name(); name != "" {
		log = log.With("command", name)
	}
	if len(cmd) > 1 {
		log = log.With("args", strings.Join(cmd[1:], " "))
	}
	return log
}

// ContextWithDocument stores the document marker on the context for log de-duplication.
func ContextWithDocument(ctx context.Context, doc schema.DocumentPath) context.Context {
	if ctx == nil || doc == "" {
		return ctx
	}
	return context.WithValue(ctx, documentKey, doc)
}

// ContextWithDocumentLogger attaches the logger and document marker to the context.
func ContextWithDocumentLogger(ctx context.Context, log pslog.Logger, doc schema.DocumentPath) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithDocument(ctx, doc)
}

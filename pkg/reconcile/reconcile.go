// Package reconcile merges identifiers from many source documents into one
// ordered, de-duplicated set, attributing each identifier to the first
// document (in name order) that contained it.
package reconcile

import (
	"context"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/taischeck/pkg/document"
	"github.com/agentstation/taischeck/pkg/identifier"
	"github.com/agentstation/taischeck/pkg/logging"
)

// Engine reconciles identifiers across source documents.
type Engine struct {
	field      string
	provenance bool
	logger     *zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithIdentifierField sets the record field read as the identifier.
func WithIdentifierField(field string) Option {
	return func(e *Engine) {
		if field != "" {
			e.field = field
		}
	}
}

// WithProvenance records every document an identifier appeared in, not just
// the first.
func WithProvenance(enabled bool) Option {
	return func(e *Engine) {
		e.provenance = enabled
	}
}

// WithLogger sets the logger used for skip diagnostics. When unset the
// logger is taken from the context passed to Reconcile.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{field: document.IdentifierField}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile processes documents in name order. Unsupported documents and
// records without an identifier are skipped; the first occurrence of an
// identifier fixes both its position in the result and its source.
// The input slice is not modified.
func (e *Engine) Reconcile(ctx context.Context, docs []document.Document) *Result {
	logger := e.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	began := time.Now()
	res := newResult(e.provenance)

	for _, doc := range document.SortByName(docs) {
		res.Metadata.Documents = append(res.Metadata.Documents, doc.Name)
		res.Stats.Documents++

		if !doc.Supported() {
			res.Stats.SkippedDocuments++
			res.Skipped = append(res.Skipped, doc.Name)
			logger.Warn().Str("document", doc.Name).Msg("Skipping document with unsupported structure")
			continue
		}

		for _, rec := range doc.Records() {
			res.Stats.Records++
			raw, _ := rec.Raw(e.field)
			id, ok := identifier.FromValue(raw)
			if !ok {
				res.Stats.Absent++
				continue
			}
			res.add(id, doc.Name)
		}

		logger.Debug().Str("document", doc.Name).Int("records", doc.Len()).Int("unique", res.Len()).Msg("Reconciled document")
	}

	res.Metadata.Duration = time.Since(began)
	res.Metadata.StartTime = utc.New(began)
	res.Metadata.EndTime = utc.Now()

	logger.Info().
		Int("documents", res.Stats.Documents).
		Int("skipped", res.Stats.SkippedDocuments).
		Int("records", res.Stats.Records).
		Int("unique", res.Len()).
		Int("duplicates", res.Stats.Duplicates).
		Dur("duration", res.Metadata.Duration).
		Msg("Reconciliation complete")

	return res
}

// Reconcile runs a default Engine over docs.
func Reconcile(ctx context.Context, docs []document.Document) *Result {
	return New().Reconcile(ctx, docs)
}

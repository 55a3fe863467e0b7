package taischeck

import (
	"context"
	"path/filepath"

	"github.com/agentstation/taischeck/internal/ingest"
	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/logging"
	"github.com/agentstation/taischeck/pkg/membership"
	"github.com/agentstation/taischeck/pkg/reconcile"
	"github.com/agentstation/taischeck/pkg/report"
)

// CompareResult is the outcome of a compare run.
type CompareResult struct {
	Report *report.Report
	Result *reconcile.Result
	Index  *membership.Index

	// Codelist is the reference dataset used.
	Codelist string
	// Path is the written workbook, empty when writing is disabled.
	Path string
}

// Compare reconciles the response documents and joins them against the
// codelist and the tenant listing. Both required artifacts are loaded
// before any document is read, so a missing one fails the run early.
func (c *Checker) Compare(ctx context.Context) (*CompareResult, error) {
	ctx = c.context(ctx, "compare")
	logger := logging.FromContext(ctx)

	table, codelist, err := c.loadReference(ctx)
	if err != nil {
		return nil, err
	}

	artifact, err := membership.LoadArtifact(ctx, c.cfg.tenantArtifact)
	if err != nil {
		return nil, err
	}
	idx := artifact.Index()

	docs, err := ingest.ReadDocuments(ctx, c.cfg.responsesDir)
	if err != nil {
		return nil, err
	}

	res := reconcile.New(reconcile.WithProvenance(c.cfg.provenance)).Reconcile(ctx, docs)
	rep := report.Build(res, table, idx,
		report.WithGlobalLabel(c.cfg.globalLabel),
		report.WithClock(c.cfg.now),
	)

	out := &CompareResult{Report: rep, Result: res, Index: idx, Codelist: codelist}
	if c.cfg.outputDir == "" {
		return out, nil
	}

	out.Path = filepath.Join(c.cfg.outputDir, report.FileName(constants.CompareReportPrefix, rep.GeneratedAt))
	if err := rep.WriteXLSX(out.Path); err != nil {
		return nil, err
	}
	logger.Info().
		Str("path", out.Path).
		Int("rows", rep.Summary.Total).
		Int("eligible", rep.Summary.Eligible).
		Int("global", rep.Summary.Global).
		Msg("Compare report written")

	return out, nil
}

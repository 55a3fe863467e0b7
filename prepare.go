package taischeck

import (
	"context"
	"path/filepath"

	"github.com/agentstation/taischeck/internal/ingest"
	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/logging"
	"github.com/agentstation/taischeck/pkg/membership"
	"github.com/agentstation/taischeck/pkg/report"
)

// PrepareResult is the outcome of a prepare run.
type PrepareResult struct {
	Artifact     *membership.Artifact
	ArtifactPath string

	Matrix *report.Matrix
	// MatrixPath is the written workbook, empty when writing is disabled.
	MatrixPath string
	Codelist   string
}

// Prepare scans the raw tenant extracts, saves the canonical tenant listing
// and builds the tenant matrix against the codelist. The listing is saved
// before the codelist is needed, so it survives a missing codelist; the
// partial result is returned alongside that error.
func (c *Checker) Prepare(ctx context.Context) (*PrepareResult, error) {
	ctx = c.context(ctx, "prepare")
	logger := logging.FromContext(ctx)

	listings, err := ingest.ScanTenants(ctx, c.cfg.rawDir)
	if err != nil {
		return nil, err
	}

	now := c.cfg.now()
	artifact := membership.NewArtifact(now.Format(constants.TimeFormatArtifact), listings)
	if err := artifact.Save(c.cfg.tenantArtifact); err != nil {
		return nil, err
	}
	logger.Info().Str("path", c.cfg.tenantArtifact).Int("tenants", len(artifact.Tenants)).Msg("Tenant listing saved")

	out := &PrepareResult{Artifact: artifact, ArtifactPath: c.cfg.tenantArtifact}

	table, codelist, err := c.loadReference(ctx)
	if err != nil {
		return out, err
	}
	out.Codelist = codelist
	out.Matrix = report.BuildMatrix(artifact.Index(), table)

	if c.cfg.outputDir == "" {
		return out, nil
	}
	out.MatrixPath = filepath.Join(c.cfg.outputDir, report.FileName(constants.MatrixReportPrefix, now))
	if err := out.Matrix.WriteXLSX(out.MatrixPath); err != nil {
		return nil, err
	}
	logger.Info().Str("path", out.MatrixPath).Int("rows", len(out.Matrix.Rows)).Msg("Tenant matrix written")

	return out, nil
}

// Package taischeck reconciles product reference codes (TAIS codes) found
// across captured API responses against the authoritative codelist and the
// tenants whose listings contain them.
//
// A Checker wires the on-disk inputs to the reconciliation core:
//
//	chk, err := taischeck.New(
//	    taischeck.WithResponsesDir("data_response"),
//	    taischeck.WithTenantArtifact("data_reports/tais_code_tenant.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Refresh the tenant listing from raw extracts
//	if _, err := chk.Prepare(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Build the compare report
//	res, err := chk.Compare(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range res.Report.Rows {
//	    fmt.Println(row.Identifier, row.Eligibility, row.Membership)
//	}
//
// Missing or malformed required inputs (the codelist, the tenant listing)
// stop a run before any report is written. Problems with individual
// documents or records are logged and skipped.
package taischeck

import (
	"context"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/logging"
	"github.com/agentstation/taischeck/pkg/membership"
	"github.com/agentstation/taischeck/pkg/reference"
)

// config holds the settings of a Checker.
type config struct {
	responsesDir   string
	tenantArtifact string
	codelist       string
	codelistDir    string
	codelistSheet  string
	outputDir      string
	rawDir         string
	payloadDir     string
	globalLabel    string

	apiURL      string
	authToken   string
	authHeader  string
	httpTimeout time.Duration

	provenance bool
	now        func() utc.Time
	logger     *zerolog.Logger
}

func defaults() *config {
	return &config{
		responsesDir:   constants.DefaultResponsesDir,
		tenantArtifact: constants.DefaultTenantArtifact,
		codelistDir:    ".",
		outputDir:      constants.DefaultOutputDir,
		rawDir:         constants.DefaultRawDir,
		payloadDir:     constants.DefaultPayloadDir,
		globalLabel:    membership.DefaultGlobalLabel,
		httpTimeout:    constants.DefaultHTTPTimeout,
		now:            utc.Now,
	}
}

// Checker runs the compare, prepare and fetch workflows. Each call rebuilds
// every input from disk; nothing is cached between calls.
type Checker struct {
	cfg *config
}

// New creates a Checker with the given options applied over the defaults.
func New(opts ...Option) (*Checker, error) {
	cfg := defaults()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &Checker{cfg: cfg}, nil
}

// context attaches the configured logger (when the caller's context has
// none), a run id and the operation name.
func (c *Checker) context(ctx context.Context, operation string) context.Context {
	if c.cfg.logger != nil && logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, c.cfg.logger)
	}
	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, "")
	}
	return logging.WithOperation(ctx, operation)
}

// loadReference finds and loads the codelist.
func (c *Checker) loadReference(ctx context.Context) (*reference.Table, string, error) {
	path := c.cfg.codelist
	if path == "" {
		var err error
		path, err = reference.Locate(c.cfg.codelistDir, constants.DefaultCodelistName, constants.CodelistPrefix)
		if err != nil {
			return nil, "", err
		}
	}
	logging.FromContext(ctx).Info().Str("codelist", path).Msg("Using codelist")

	table, err := reference.Load(ctx, path, c.cfg.codelistSheet)
	if err != nil {
		return nil, "", err
	}
	return table, path, nil
}

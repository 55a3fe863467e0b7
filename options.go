package taischeck

import (
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"
)

// Option is a function that configures a Checker.
type Option func(*config) error

// WithResponsesDir sets the directory of source documents compared.
func WithResponsesDir(dir string) Option {
	return func(c *config) error {
		c.responsesDir = dir
		return nil
	}
}

// WithTenantArtifact sets the tenant listing artifact path.
func WithTenantArtifact(path string) Option {
	return func(c *config) error {
		c.tenantArtifact = path
		return nil
	}
}

// WithCodelist pins the reference dataset file, bypassing discovery.
func WithCodelist(path string) Option {
	return func(c *config) error {
		c.codelist = path
		return nil
	}
}

// WithCodelistDir sets where the reference dataset is discovered.
func WithCodelistDir(dir string) Option {
	return func(c *config) error {
		c.codelistDir = dir
		return nil
	}
}

// WithCodelistSheet selects the worksheet of an xlsx reference dataset.
func WithCodelistSheet(sheet string) Option {
	return func(c *config) error {
		c.codelistSheet = sheet
		return nil
	}
}

// WithOutputDir sets where reports are written. An empty dir disables writing.
func WithOutputDir(dir string) Option {
	return func(c *config) error {
		c.outputDir = dir
		return nil
	}
}

// WithRawDir sets the directory of raw per-tenant extracts.
func WithRawDir(dir string) Option {
	return func(c *config) error {
		c.rawDir = dir
		return nil
	}
}

// WithPayloadDir sets the directory of request payloads for fetch.
func WithPayloadDir(dir string) Option {
	return func(c *config) error {
		c.payloadDir = dir
		return nil
	}
}

// WithGlobalLabel sets the membership display for identifiers no tenant lists.
func WithGlobalLabel(label string) Option {
	return func(c *config) error {
		c.globalLabel = label
		return nil
	}
}

// WithAPI configures the capture endpoint and its credentials. An empty
// header means bearer auth.
func WithAPI(url, token, header string) Option {
	return func(c *config) error {
		c.apiURL = url
		c.authToken = token
		c.authHeader = header
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout for fetch.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *config) error {
		c.httpTimeout = d
		return nil
	}
}

// WithProvenance records every document an identifier appeared in.
func WithProvenance(enabled bool) Option {
	return func(c *config) error {
		c.provenance = enabled
		return nil
	}
}

// WithClock sets the time source for report names and artifact timestamps.
func WithClock(now func() utc.Time) Option {
	return func(c *config) error {
		c.now = now
		return nil
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

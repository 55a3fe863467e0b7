package taischeck

import (
	"context"

	"github.com/agentstation/taischeck/internal/fetch"
	"github.com/agentstation/taischeck/internal/transport"
	"github.com/agentstation/taischeck/pkg/errors"
)

// Fetch posts every request payload to the configured endpoint and writes
// one response envelope per payload into the responses directory.
func (c *Checker) Fetch(ctx context.Context) (*fetch.Summary, error) {
	ctx = c.context(ctx, "fetch")

	if c.cfg.apiURL == "" {
		return nil, errors.NewConfigError("fetch", "api url is not configured", errors.ErrInvalidInput)
	}

	f, err := fetch.NewWithToken(c.cfg.authToken, c.cfg.authHeader, c.cfg.apiURL,
		c.cfg.payloadDir, c.cfg.responsesDir, transport.WithTimeout(c.cfg.httpTimeout))
	if err != nil {
		return nil, err
	}
	return f.Run(ctx)
}

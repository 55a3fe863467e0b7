package taischeck

import (
	"context"

	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/logging"
	"github.com/agentstation/taischeck/pkg/membership"
)

// Tenants loads the tenant listing artifact.
func (c *Checker) Tenants(ctx context.Context) (*membership.Artifact, error) {
	return membership.LoadArtifact(c.context(ctx, "tenants"), c.cfg.tenantArtifact)
}

// Migrate rewrites the tenant listing in the canonical layout at dest, or in
// place when dest is empty. A listing without a timestamp is stamped now.
func (c *Checker) Migrate(ctx context.Context, dest string) (*membership.Artifact, error) {
	ctx = c.context(ctx, "migrate")

	src, err := membership.LoadArtifact(ctx, c.cfg.tenantArtifact)
	if err != nil {
		return nil, err
	}

	generatedAt := src.GeneratedAt
	if generatedAt == "" {
		generatedAt = c.cfg.now().Format(constants.TimeFormatArtifact)
	}
	migrated := membership.NewArtifact(generatedAt, src.Listings())

	if dest == "" {
		dest = c.cfg.tenantArtifact
	}
	if err := migrated.Save(dest); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Str("from", string(src.Schema)).
		Str("path", dest).
		Int("tenants", len(migrated.Tenants)).
		Msg("Tenant listing migrated")

	return migrated, nil
}

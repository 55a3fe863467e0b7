// Package tenants provides the tenants command: listing the tenant
// membership index and migrating legacy listing artifacts.
package tenants

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/taischeck"
	"github.com/agentstation/taischeck/cmd/application"
	"github.com/agentstation/taischeck/internal/cmd/alerts"
	"github.com/agentstation/taischeck/internal/cmd/output"
	"github.com/agentstation/taischeck/pkg/membership"
)

// Tenant is one row of the tenants listing.
type Tenant struct {
	Label  string `json:"label" yaml:"label"`
	Tenant string `json:"tenant" yaml:"tenant"`
	Codes  int    `json:"codes" yaml:"codes"`
}

// NewCommand creates the tenants command with its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenants",
		GroupID: "management",
		Short:   "Inspect and migrate the tenant listing",
		Long: `Tenants shows the labels assigned to each tenant of the listing
(Tenant A, Tenant B, ... in tenant id order) with the number of distinct
codes each lists. Without a subcommand it runs "tenants list".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, app)
		},
	}
	cmd.PersistentFlags().String("tenants", "", "tenant listing artifact")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tenants with their labels and code counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, app)
		},
	})

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite a legacy tenant listing in the canonical layout",
		Long: `Migrate reads a tenant listing in any accepted layout (canonical,
tais_by_file or a bare tenant map) and writes it as
{"generated_at", "tais_by_tenant"}. The file is rewritten in place
unless --out is given.`,
		Example: `  taischeck tenants migrate --tenants old.json --out data_reports/tais_code_tenant.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chk, err := checker(cmd, app)
			if err != nil {
				return err
			}
			dest, _ := cmd.Flags().GetString("out")
			migrated, err := chk.Migrate(cmd.Context(), dest)
			if err != nil {
				return err
			}
			if dest == "" {
				dest, _ = cmd.Flags().GetString("tenants")
			}
			alert := alerts.NewSuccess("Tenant listing migrated")
			if dest != "" {
				alert = alert.WithDetails(dest)
			}
			status := alerts.NewFormatWriter(cmd.ErrOrStderr(), output.Format(app.OutputFormat()), app.NoColor())
			if err := status.WriteAlert(alert); err != nil {
				return err
			}
			return output.NewFormatter(output.DetectFormat(app.OutputFormat())).Format(cmd.OutOrStdout(), rows(migrated))
		},
	}
	migrate.Flags().String("out", "", "destination (default: rewrite in place)")
	cmd.AddCommand(migrate)

	return cmd
}

func checker(cmd *cobra.Command, app application.Application) (*taischeck.Checker, error) {
	var opts []taischeck.Option
	if cmd.Flags().Changed("tenants") {
		path, _ := cmd.Flags().GetString("tenants")
		opts = append(opts, taischeck.WithTenantArtifact(path))
	}
	return app.Checker(opts...)
}

func list(cmd *cobra.Command, app application.Application) error {
	chk, err := checker(cmd, app)
	if err != nil {
		return err
	}
	artifact, err := chk.Tenants(cmd.Context())
	if err != nil {
		return err
	}
	return output.NewFormatter(output.DetectFormat(app.OutputFormat())).Format(cmd.OutOrStdout(), rows(artifact))
}

// rows lists the tenants in label order.
func rows(artifact *membership.Artifact) []Tenant {
	idx := artifact.Index()
	out := make([]Tenant, 0, len(idx.Sources()))
	for _, src := range idx.Sources() {
		label, _ := idx.LabelOf(src)
		out = append(out, Tenant{Label: string(label), Tenant: src, Codes: idx.Count(src)})
	}
	return out
}

// Package prepare provides the prepare command.
package prepare

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/taischeck"
	"github.com/agentstation/taischeck/cmd/application"
	"github.com/agentstation/taischeck/internal/cmd/alerts"
	"github.com/agentstation/taischeck/internal/cmd/output"
)

// NewCommand creates the prepare command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prepare",
		GroupID: "core",
		Short:   "Build the tenant listing and matrix from raw extracts",
		Long: `Prepare scans the raw extracts directory (one sub-directory per tenant),
collects the TAIS codes of each tenant's plans and saves the canonical
tenant listing. It then writes tais_matrix_result_<timestamp>.xlsx with
one column per tenant, joined against the codelist.

The tenant listing is saved even when no codelist can be found.`,
		Example: `  taischeck prepare
  taischeck prepare --raw-dir exports --tenants out/tenants.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []taischeck.Option
			if cmd.Flags().Changed("raw-dir") {
				dir, _ := cmd.Flags().GetString("raw-dir")
				opts = append(opts, taischeck.WithRawDir(dir))
			}
			if cmd.Flags().Changed("tenants") {
				path, _ := cmd.Flags().GetString("tenants")
				opts = append(opts, taischeck.WithTenantArtifact(path))
			}
			if cmd.Flags().Changed("codelist") {
				path, _ := cmd.Flags().GetString("codelist")
				opts = append(opts, taischeck.WithCodelist(path))
			}

			chk, err := app.Checker(opts...)
			if err != nil {
				return err
			}
			res, err := chk.Prepare(cmd.Context())
			status := alerts.NewFormatWriter(cmd.ErrOrStderr(), output.Format(app.OutputFormat()), app.NoColor())
			if res != nil && res.ArtifactPath != "" {
				if werr := status.WriteAlert(alerts.NewSuccess("Tenant listing saved").WithDetails(res.ArtifactPath)); werr != nil {
					return werr
				}
			}
			if err != nil {
				return err
			}
			if res.MatrixPath != "" {
				return status.WriteAlert(alerts.NewSuccess("Tenant matrix written").WithDetails(res.MatrixPath))
			}
			return nil
		},
	}

	cmd.Flags().String("raw-dir", "", "directory of raw per-tenant extracts")
	cmd.Flags().String("tenants", "", "tenant listing artifact to write")
	cmd.Flags().String("codelist", "", "codelist file (default: newest codelist)")

	return cmd
}

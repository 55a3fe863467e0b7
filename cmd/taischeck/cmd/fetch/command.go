// Package fetch provides the fetch command.
package fetch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/taischeck"
	"github.com/agentstation/taischeck/cmd/application"
	"github.com/agentstation/taischeck/internal/cmd/alerts"
	"github.com/agentstation/taischeck/internal/cmd/output"
)

// NewCommand creates the fetch command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fetch",
		GroupID: "core",
		Short:   "Capture API responses for every request payload",
		Long: `Fetch posts each request payload (*.json in the payload directory, in
name order) to API_BASE_URL + API_ENDPOINT with AUTH_TOKEN and writes one
response-<n>.json envelope per payload into the responses directory.

Requests run one at a time without retries. A request that fails leaves
an envelope with a null status code, so compare still sees the file.`,
		Example: `  AUTH_TOKEN=... taischeck fetch
  taischeck fetch --payload-dir requests --responses-dir captured`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []taischeck.Option
			if cmd.Flags().Changed("payload-dir") {
				dir, _ := cmd.Flags().GetString("payload-dir")
				opts = append(opts, taischeck.WithPayloadDir(dir))
			}
			if cmd.Flags().Changed("responses-dir") {
				dir, _ := cmd.Flags().GetString("responses-dir")
				opts = append(opts, taischeck.WithResponsesDir(dir))
			}
			if cmd.Flags().Changed("timeout") {
				d, _ := cmd.Flags().GetDuration("timeout")
				opts = append(opts, taischeck.WithHTTPTimeout(d))
			}

			chk, err := app.Checker(opts...)
			if err != nil {
				return err
			}
			summary, err := chk.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			format := output.Format(app.OutputFormat())
			status := alerts.NewFormatWriter(cmd.ErrOrStderr(), format, app.NoColor())
			alert := alerts.NewSuccess(fmt.Sprintf("Captured %d responses", len(summary.Written)))
			if summary.Failed > 0 {
				alert = alerts.NewWarning(fmt.Sprintf("Captured %d responses, %d requests failed", len(summary.Written), summary.Failed))
			}
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), summary)
			}
			return status.WriteAlert(alert)
		},
	}

	cmd.Flags().String("payload-dir", "", "directory of request payloads")
	cmd.Flags().String("responses-dir", "", "directory response envelopes are written to")
	cmd.Flags().Duration("timeout", 0, "per-request timeout")

	return cmd
}

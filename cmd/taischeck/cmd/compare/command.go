// Package compare provides the compare command.
package compare

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/taischeck"
	"github.com/agentstation/taischeck/cmd/application"
	"github.com/agentstation/taischeck/internal/cmd/alerts"
	"github.com/agentstation/taischeck/internal/cmd/output"
)

// NewCommand creates the compare command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "compare",
		GroupID: "core",
		Short:   "Reconcile response codes against the codelist and tenants",
		Long: `Compare collects every TAIS code from the captured response documents,
keeps the first document each code appeared in, and joins the codes
against the codelist (eligibility) and the tenant listing (membership).

The report is printed (preview by default) and written as
compare_result_<timestamp>.xlsx to the output directory.`,
		Example: `  taischeck compare                       # Preview and write the report
  taischeck compare --no-write -o json    # Print the report as JSON only
  taischeck compare --codelist ref.xlsx   # Pin the codelist file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}

	cmd.Flags().String("responses-dir", "", "directory of captured response documents")
	cmd.Flags().String("tenants", "", "tenant listing artifact")
	cmd.Flags().String("codelist", "", "codelist file (default: newest codelist in --codelist-dir)")
	cmd.Flags().String("codelist-dir", "", "directory searched for the codelist")
	cmd.Flags().String("sheet", "", "codelist worksheet (xlsx only)")
	cmd.Flags().String("output-dir", "", "directory the report is written to")
	cmd.Flags().String("global-label", "", "membership shown for codes no tenant lists")
	cmd.Flags().Bool("no-write", false, "print the report without writing the workbook")
	cmd.Flags().Bool("provenance", false, "record every document a code appeared in")

	return cmd
}

func run(cmd *cobra.Command, app application.Application) error {
	chk, err := app.Checker(options(cmd)...)
	if err != nil {
		return err
	}

	res, err := chk.Compare(cmd.Context())
	if err != nil {
		return err
	}

	format := output.Format(app.OutputFormat())
	if format == "" {
		format = output.FormatPreview
	}
	out := cmd.OutOrStdout()
	if err := output.NewFormatter(format).Format(out, res.Report); err != nil {
		return err
	}

	status := alerts.NewFormatWriter(cmd.ErrOrStderr(), format, app.NoColor())
	if skipped := alerts.Skipped(res.Result.Skipped); skipped != nil {
		if err := status.WriteAlert(skipped); err != nil {
			return err
		}
	}

	if res.Path == "" {
		return nil
	}
	return status.WriteAlert(alerts.NewSuccess("Compare report written").WithDetails(
		res.Path,
		fmt.Sprintf("%d codes, %d eligible, %d global", res.Report.Summary.Total, res.Report.Summary.Eligible, res.Report.Summary.Global),
	))
}

// options maps the flags the user set onto Checker options.
func options(cmd *cobra.Command) []taischeck.Option {
	var opts []taischeck.Option
	flags := cmd.Flags()

	stringFlag := func(name string, opt func(string) taischeck.Option) {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			opts = append(opts, opt(v))
		}
	}
	stringFlag("responses-dir", taischeck.WithResponsesDir)
	stringFlag("tenants", taischeck.WithTenantArtifact)
	stringFlag("codelist", taischeck.WithCodelist)
	stringFlag("codelist-dir", taischeck.WithCodelistDir)
	stringFlag("sheet", taischeck.WithCodelistSheet)
	stringFlag("output-dir", taischeck.WithOutputDir)
	stringFlag("global-label", taischeck.WithGlobalLabel)

	if noWrite, _ := flags.GetBool("no-write"); noWrite {
		opts = append(opts, taischeck.WithOutputDir(""))
	}
	if flags.Changed("provenance") {
		v, _ := flags.GetBool("provenance")
		opts = append(opts, taischeck.WithProvenance(v))
	}
	return opts
}

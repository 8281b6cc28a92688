package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostctl/cmd/hostctl/handlers"
)

// Deploy returns the command for deploying a static site.
//
// The command runs the full workflow: billing precheck, hosting
// provisioning, artifact build, and concurrent upload.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect hostctl.yaml)
//	--plain: Disable the interactive dashboard and log to the console
//
// Environment variables:
//
//	HOSTING_API_TOKEN: Control-plane API token (required)
//	HOSTING_STORAGE_ENDPOINT, HOSTING_STORAGE_ACCESS_KEY,
//	HOSTING_STORAGE_SECRET_KEY: Storage credentials for uploads (required)
func Deploy() *cobra.Command {
	var (
		configPath string
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Build and deploy the site",
		Long: `Build and deploy your static site to environment hosting.

The target environment must use usage-based (postpaid) billing. Hosting is
enabled automatically on first deploy; provisioning is asynchronous and can
take a few minutes.

If no config file is specified, it looks for hostctl.yaml in the current
directory and its parents. Use 'hostctl init' to create one.

Examples:
  # Deploy using hostctl.yaml in the current directory
  hostctl deploy

  # Deploy using a specific config file
  hostctl deploy -c production.yaml

  # Deploy without the interactive dashboard (CI)
  hostctl deploy --plain`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath, plain)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: hostctl.yaml)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable the interactive dashboard")

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostctl/cmd/hostctl/handlers"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "hostctl.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a hostctl configuration file.

The wizard asks for:

  - Environment ID (the cloud environment to deploy to)
  - Output directory (where your built site lives)
  - Cloud path (the remote base path under the hosting root)
  - Build command (optional, run before packaging)`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Init(outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "hostctl.yaml", "Output file path")

	return cmd
}

package config

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// RunWizard runs the interactive configuration wizard and returns the
// user's choices as a Config.
func RunWizard() (*Config, error) {
	cfg := &Config{
		// Defaults shown in the form
		OutputPath: DefaultOutputPath,
		CloudPath:  DefaultCloudPath,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Environment ID").
				Description("The cloud environment to deploy to (must use usage-based billing)").
				Placeholder("env-1").
				Value(&cfg.EnvID).
				Validate(validateEnvID),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Description("Local directory holding the built site").
				Value(&cfg.OutputPath),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Cloud path").
				Description("Remote base path under the hosting root, e.g. / or /site/").
				Value(&cfg.CloudPath).
				Validate(validateCloudPath),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Build command").
				Description("Optional shell command run before packaging (leave empty to skip)").
				Placeholder("npm run build").
				Value(&cfg.BuildCommand),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateEnvID(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("environment ID is required")
	}
	return nil
}

func validateCloudPath(s string) error {
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "/") {
		return errors.New("cloud path must start with /")
	}
	return nil
}

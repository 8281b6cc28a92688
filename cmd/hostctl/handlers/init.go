package handlers

import (
	"fmt"
	"os"

	"github.com/imamik/hostctl/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the configuration wizard.
	runWizard = config.RunWizard

	// saveConfig writes the config to a file.
	saveConfig = config.Save
)

// Init runs the configuration wizard and writes the result to a file.
func Init(outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	cfg, err := runWizard()
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if err := saveConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("hostctl - static site deployment")
	fmt.Println("================================")
	fmt.Println()
	fmt.Println("This wizard creates a deployment configuration with sensible defaults.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Deployment Summary")
	fmt.Println("------------------")
	fmt.Printf("  Environment: %s\n", cfg.EnvID)
	fmt.Printf("  Output path: %s\n", valueOrDefault(cfg.OutputPath, config.DefaultOutputPath))
	fmt.Printf("  Cloud path:  %s\n", valueOrDefault(cfg.CloudPath, config.DefaultCloudPath))
	if cfg.BuildCommand != "" {
		fmt.Printf("  Build:       %s\n", cfg.BuildCommand)
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Set your API credentials:")
	fmt.Printf("     export %s=<your-token>\n", apiTokenEnv)
	fmt.Println()
	fmt.Println("  2. Deploy your site:")
	fmt.Println("     hostctl deploy")
	fmt.Println()
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/imamik/hostctl/internal/builder"
	"github.com/imamik/hostctl/internal/config"
	"github.com/imamik/hostctl/internal/deploy"
	"github.com/imamik/hostctl/internal/orchestration"
	"github.com/imamik/hostctl/internal/platform/cloud"
	"github.com/imamik/hostctl/internal/platform/s3"
	"github.com/imamik/hostctl/internal/precheck"
	"github.com/imamik/hostctl/internal/provisioning"
	"github.com/imamik/hostctl/internal/ui/tui"
)

const (
	apiTokenEnv         = "HOSTING_API_TOKEN"
	storageEndpointEnv  = "HOSTING_STORAGE_ENDPOINT"
	storageAccessKeyEnv = "HOSTING_STORAGE_ACCESS_KEY"
	storageSecretKeyEnv = "HOSTING_STORAGE_SECRET_KEY"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newControlPlane creates the control-plane API client.
	newControlPlane = func(token string) cloud.ControlPlane {
		return cloud.NewClient(token)
	}

	// newUploader creates the storage uploader for a provisioned site.
	// The bucket and region are only known after provisioning, so this
	// runs during the deploy phase, not up front.
	newUploader = func(site *cloud.HostingSite, timeouts *config.Timeouts) (deploy.Uploader, error) {
		endpoint := os.Getenv(storageEndpointEnv)
		accessKey := os.Getenv(storageAccessKeyEnv)
		secretKey := os.Getenv(storageSecretKeyEnv)
		if endpoint == "" || accessKey == "" || secretKey == "" {
			return nil, fmt.Errorf("storage credentials missing: set %s, %s and %s",
				storageEndpointEnv, storageAccessKeyEnv, storageSecretKeyEnv)
		}

		client, err := s3.NewClient(endpoint, site.Region, accessKey, secretKey)
		if err != nil {
			return nil, err
		}
		return s3.NewUploader(client, site.Bucket, timeouts), nil
	}

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.Load

	// findConfigFile finds the config file (for testing injection).
	findConfigFile = config.FindConfigFile

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd())
	}

	// runDeployTUI runs the interactive dashboard.
	runDeployTUI = tui.RunDeployTUI
)

// Deploy runs the full deployment workflow:
//  1. Loads and validates the configuration (auto-detects hostctl.yaml)
//  2. Verifies the environment uses usage-based billing and ensures
//     hosting is provisioned, concurrently
//  3. Builds the site and stages the output directory into artifacts
//  4. Uploads all artifacts concurrently and prints the site URL
//
// With an interactive terminal the workflow renders a live dashboard;
// --plain (or a non-TTY stdout, e.g. CI) falls back to console logging.
func Deploy(ctx context.Context, configPath string, plain bool) error {
	cfg, workDir, err := loadResolvedConfig(configPath)
	if err != nil {
		return err
	}

	token := os.Getenv(apiTokenEnv)
	if token == "" {
		return fmt.Errorf("%s is not set", apiTokenEnv)
	}
	api := newControlPlane(token)
	timeouts := config.LoadTimeouts()

	if !plain && isTerminal() {
		return runDeployTUI(cfg.EnvID, func(observer provisioning.Observer) (string, error) {
			return runWorkflow(ctx, cfg, workDir, api, timeouts, observer)
		})
	}

	observer := provisioning.NewConsoleObserver()
	url, err := runWorkflow(ctx, cfg, workDir, api, timeouts, observer)
	if err != nil {
		return err
	}

	fmt.Printf("\nDeployment complete!\n")
	fmt.Printf("Your site is live at: %s\n", url)
	return nil
}

// loadResolvedConfig locates, loads, and resolves the configuration.
// The directory holding the config file becomes the working directory
// for the build.
func loadResolvedConfig(configPath string) (*config.Resolved, string, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, "", fmt.Errorf("no config file found: %w\nRun 'hostctl init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	resolved, err := config.Resolve(*cfg)
	if err != nil {
		return nil, "", err
	}

	workDir := filepath.Dir(configPath)
	return resolved, workDir, nil
}

// runWorkflow wires the workflow components and runs the orchestrator.
func runWorkflow(
	ctx context.Context,
	cfg *config.Resolved,
	workDir string,
	api cloud.ControlPlane,
	timeouts *config.Timeouts,
	observer provisioning.Observer,
) (string, error) {
	var orch *orchestration.Orchestrator

	dispatcher := &siteDispatcher{
		observer: observer,
		timeouts: timeouts,
		site:     func() *cloud.HostingSite { return orch.State().Site },
	}

	orch = orchestration.New(cfg,
		precheck.NewChecker(api),
		provisioning.NewProvisioner(api, observer, timeouts),
		builder.New(cfg, observer, workDir),
		dispatcher,
		observer)

	_, url, err := orch.Run(ctx)
	return url, err
}

// siteDispatcher defers uploader construction until the hosting site is
// known, then delegates to the concurrent dispatcher.
type siteDispatcher struct {
	observer provisioning.Observer
	timeouts *config.Timeouts
	site     func() *cloud.HostingSite
}

func (d *siteDispatcher) DeployAll(ctx context.Context, artifacts []builder.Artifact) ([]deploy.Result, error) {
	uploader, err := newUploader(d.site(), d.timeouts)
	if err != nil {
		return nil, err
	}
	return deploy.NewDispatcher(uploader, d.observer).DeployAll(ctx, artifacts)
}

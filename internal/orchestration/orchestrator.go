// Package orchestration sequences the hosting deployment workflow.
//
// The workflow is a linear state machine: init (preconditions and hosting
// provisioning, concurrently), build (artifact packaging), deploy (upload
// fan-out and cleanup). Each phase entry point advances the machine or
// moves it to the terminal Failed state. A failed orchestrator is not
// reusable; construct a fresh one to retry from scratch.
package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/hostctl/internal/builder"
	"github.com/imamik/hostctl/internal/config"
	"github.com/imamik/hostctl/internal/deploy"
	"github.com/imamik/hostctl/internal/platform/cloud"
	"github.com/imamik/hostctl/internal/provisioning"
	"github.com/imamik/hostctl/internal/util/async"
)

// Phase is the orchestrator's lifecycle state.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseInitializing  Phase = "initializing"
	PhaseBuilding      Phase = "building"
	PhaseDeploying     Phase = "deploying"
	PhaseDone          Phase = "done"
	PhaseFailed        Phase = "failed"
)

// State holds the results passed between phases. The hosting site is
// written once during init and read once during deploy; nothing mutates
// it in between.
type State struct {
	Environment *cloud.Environment
	Site        *cloud.HostingSite
	Artifacts   []builder.Artifact
	Results     []deploy.Result
	URL         string
}

// PreconditionChecker verifies the environment before provisioning.
type PreconditionChecker interface {
	Check(ctx context.Context, envID string) (*cloud.Environment, error)
}

// HostingProvisioner brings the hosting resource to ready.
type HostingProvisioner interface {
	EnsureReady(ctx context.Context, envID string) (*cloud.HostingSite, error)
}

// ArtifactBuilder packages the local site into artifacts.
type ArtifactBuilder interface {
	InstallDependencies(ctx context.Context) error
	RunBuildCommand(ctx context.Context) error
	Build(ctx context.Context) ([]builder.Artifact, error)
	Clean() error
}

// Dispatcher uploads the artifact set.
type Dispatcher interface {
	DeployAll(ctx context.Context, artifacts []builder.Artifact) ([]deploy.Result, error)
}

// Orchestrator drives the deployment workflow.
type Orchestrator struct {
	cfg         *config.Resolved
	checker     PreconditionChecker
	provisioner HostingProvisioner
	builder     ArtifactBuilder
	dispatcher  Dispatcher
	observer    provisioning.Observer

	phase Phase
	state State
}

// New creates an orchestrator in the Uninitialized phase.
func New(
	cfg *config.Resolved,
	checker PreconditionChecker,
	provisioner HostingProvisioner,
	artifactBuilder ArtifactBuilder,
	dispatcher Dispatcher,
	observer provisioning.Observer,
) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		checker:     checker,
		provisioner: provisioner,
		builder:     artifactBuilder,
		dispatcher:  dispatcher,
		observer:    observer,
		phase:       PhaseUninitialized,
	}
}

// Phase returns the current lifecycle state.
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// State returns the cross-phase run state.
func (o *Orchestrator) State() *State {
	return &o.state
}

// Init verifies the billing precondition and ensures hosting is ready,
// concurrently. Both branches must succeed to advance.
func (o *Orchestrator) Init(ctx context.Context) error {
	if err := o.enter(PhaseUninitialized, PhaseInitializing, "init"); err != nil {
		return err
	}
	start := time.Now()

	tasks := []async.Task{
		{Name: "precheck", Func: func(ctx context.Context) error {
			env, err := o.checker.Check(ctx, o.cfg.EnvID)
			if err != nil {
				return err
			}
			o.state.Environment = env
			return nil
		}},
		{Name: "hosting", Func: func(ctx context.Context) error {
			site, err := o.provisioner.EnsureReady(ctx, o.cfg.EnvID)
			if err != nil {
				return err
			}
			o.state.Site = site
			return nil
		}},
	}

	if err := async.RunParallel(ctx, tasks); err != nil {
		return o.fail("init", err)
	}

	provisioning.LogPhaseComplete(o.observer, "init", time.Since(start))
	return nil
}

// Build installs build-tool dependencies (best-effort), runs the user
// build command (fatal on failure), and packages the output directory.
func (o *Orchestrator) Build(ctx context.Context) error {
	if err := o.enter(PhaseInitializing, PhaseBuilding, "build"); err != nil {
		return err
	}
	start := time.Now()

	// Dependency installation is advisory: log and continue.
	if err := o.builder.InstallDependencies(ctx); err != nil {
		o.observer.Printf("dependency installation failed (continuing): %v", err)
	}

	if err := o.builder.RunBuildCommand(ctx); err != nil {
		return o.fail("build", err)
	}

	artifacts, err := o.builder.Build(ctx)
	if err != nil {
		return o.fail("build", err)
	}
	o.state.Artifacts = artifacts

	provisioning.LogPhaseComplete(o.observer, "build", time.Since(start))
	return nil
}

// Deploy uploads the artifact set and constructs the deployed-site URL.
// Deployment only proceeds once the hosting site is ready and its domain
// is known (captured during Init).
func (o *Orchestrator) Deploy(ctx context.Context) ([]deploy.Result, string, error) {
	if err := o.enter(PhaseBuilding, PhaseDeploying, "deploy"); err != nil {
		return nil, "", err
	}
	start := time.Now()

	if o.state.Site == nil || o.state.Site.Domain == "" {
		return nil, "", o.fail("deploy", fmt.Errorf("hosting site is not ready"))
	}

	results, err := o.dispatcher.DeployAll(ctx, o.state.Artifacts)
	if err != nil {
		return nil, "", o.fail("deploy", err)
	}
	o.state.Results = results
	o.state.URL = deploy.SiteURL(o.state.Site.Domain, o.cfg.CloudPath)

	// Post-deploy cleanup is best-effort: log and continue.
	if err := o.builder.Clean(); err != nil {
		o.observer.Printf("cleanup failed (continuing): %v", err)
	}

	o.phase = PhaseDone
	provisioning.LogPhaseComplete(o.observer, "deploy", time.Since(start))
	o.observer.Printf("deployed: %s", o.state.URL)

	return results, o.state.URL, nil
}

// Run executes the full workflow: Init, Build, Deploy.
func (o *Orchestrator) Run(ctx context.Context) ([]deploy.Result, string, error) {
	if err := o.Init(ctx); err != nil {
		return nil, "", err
	}
	if err := o.Build(ctx); err != nil {
		return nil, "", err
	}
	return o.Deploy(ctx)
}

// enter guards a phase transition.
func (o *Orchestrator) enter(from, to Phase, name string) error {
	if o.phase != from {
		return fmt.Errorf("cannot %s: workflow is %s, want %s", name, o.phase, from)
	}
	o.phase = to
	provisioning.LogPhaseStart(o.observer, name)
	return nil
}

// fail moves the machine to the terminal Failed state and propagates the
// error unmodified.
func (o *Orchestrator) fail(phase string, err error) error {
	o.phase = PhaseFailed
	provisioning.LogPhaseFailed(o.observer, phase, err)
	return err
}

// Package provisioning ensures a static-hosting resource exists and is
// ready to serve for a cloud environment.
//
// Hosting provisioning is asynchronous on the cloud side with no
// completion callback, so the provisioner polls with a fixed delay:
// lookup, enable if absent, suspend, re-lookup. The interval and attempt
// budget come from config.Timeouts, and the loop honors context
// cancellation.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/hostctl/internal/config"
	"github.com/imamik/hostctl/internal/platform/cloud"
	"github.com/imamik/hostctl/internal/util/retry"
)

// ProvisioningError indicates the hosting resource could not be brought
// to a ready state: either the enable request failed hard, or the poll
// budget was exhausted.
type ProvisioningError struct {
	EnvironmentID string
	Err           error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning hosting for %s: %v", e.EnvironmentID, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// errNotReady marks a poll cycle that found no hosting record yet.
var errNotReady = errors.New("hosting not ready")

// Provisioner brings the hosting resource of an environment to ready.
type Provisioner struct {
	hosting  cloud.HostingManager
	observer Observer

	interval    time.Duration
	maxAttempts int
}

// NewProvisioner creates a provisioner polling at the configured interval.
func NewProvisioner(hosting cloud.HostingManager, observer Observer, timeouts *config.Timeouts) *Provisioner {
	return &Provisioner{
		hosting:     hosting,
		observer:    observer,
		interval:    timeouts.PollInterval,
		maxAttempts: timeouts.PollMaxAttempts,
	}
}

// EnsureReady returns the hosting record for the environment, enabling
// hosting and polling until a record appears. When a record already
// exists the call is a no-op besides the lookup: the first record is
// authoritative and no enable request is issued.
func (p *Provisioner) EnsureReady(ctx context.Context, envID string) (*cloud.HostingSite, error) {
	var site *cloud.HostingSite

	operation := func() error {
		sites, err := p.hosting.DescribeHosting(ctx, envID)
		switch {
		case err != nil:
			// Treated like absence so a transient control-plane fault does
			// not abort provisioning, but surfaced in the log so real API
			// errors stay visible.
			p.observer.Printf("hosting lookup for %s failed: %v", envID, err)
		case len(sites) > 0:
			site = &sites[0]
			return nil
		}

		if err := p.hosting.EnableHosting(ctx, envID); err != nil {
			return retry.Fatal(fmt.Errorf("enable hosting: %w", err))
		}
		return errNotReady
	}

	err := retry.Do(ctx, operation,
		retry.WithMaxAttempts(p.maxAttempts),
		retry.WithDelay(p.interval),
		retry.WithMultiplier(1.0),
		retry.WithOnWait(func(attempt int, delay time.Duration, _ error) {
			p.observer.Printf("hosting for %s is provisioning (attempt %d/%d); this usually takes a few minutes, checking again in %v",
				envID, attempt, p.maxAttempts, delay)
		}))
	if err != nil {
		return nil, &ProvisioningError{EnvironmentID: envID, Err: err}
	}

	p.observer.Event(Event{
		Type:     EventResourceReady,
		Phase:    "hosting",
		Resource: envID,
		Message:  "hosting ready",
		Fields:   map[string]string{"domain": site.Domain},
	})

	return site, nil
}

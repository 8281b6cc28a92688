// Package precheck verifies environment preconditions before provisioning.
//
// Static hosting is only defined for usage-based (postpaid) environments,
// so the workflow fails fast on anything else. These checks are terminal:
// a failed precondition is never retried.
package precheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/hostctl/internal/platform/cloud"
)

// ErrEnvironmentNotFound indicates the named environment does not exist
// for the account.
var ErrEnvironmentNotFound = errors.New("environment not found")

// UnsupportedBillingModeError indicates the environment's billing mode
// does not support static hosting.
type UnsupportedBillingModeError struct {
	EnvironmentID string
	Mode          cloud.BillingMode
}

func (e *UnsupportedBillingModeError) Error() string {
	return fmt.Sprintf(
		"environment %s uses %s billing; static hosting requires usage-based (postpaid) billing. Switch the billing mode in the cloud console and retry",
		e.EnvironmentID, e.Mode)
}

// Checker verifies that an environment exists and is eligible for hosting.
type Checker struct {
	envs cloud.EnvironmentLister
}

// NewChecker creates a precondition checker backed by the given lister.
func NewChecker(envs cloud.EnvironmentLister) *Checker {
	return &Checker{envs: envs}
}

// Check fetches the environment list and returns the descriptor for envID.
// The list is fetched fresh on every call; descriptors are never cached.
func (c *Checker) Check(ctx context.Context, envID string) (*cloud.Environment, error) {
	envs, err := c.envs.DescribeEnvironments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list environments: %w", err)
	}

	for _, env := range envs {
		if env.ID != envID {
			continue
		}
		if env.BillingMode != cloud.BillingPostpaid {
			return nil, &UnsupportedBillingModeError{EnvironmentID: envID, Mode: env.BillingMode}
		}
		return &env, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrEnvironmentNotFound, envID)
}

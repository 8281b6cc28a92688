// Package cloud provides a minimal client for the hosting control-plane API.
package cloud

import "context"

// BillingMode is the billing mode of a cloud environment.
type BillingMode string

const (
	// BillingPrepaid is quota-based billing, paid up front.
	BillingPrepaid BillingMode = "prepaid"
	// BillingPostpaid is usage-based billing. Static hosting is only
	// available for postpaid environments.
	BillingPostpaid BillingMode = "postpaid"
)

// Environment is a cloud environment as reported by the control plane.
type Environment struct {
	ID          string      `json:"envId"`
	BillingMode BillingMode `json:"billingMode"`
}

// HostingSite is one static-hosting record bound to an environment.
// A record returned by the control plane is serving; its domain and
// storage bucket are valid.
type HostingSite struct {
	EnvironmentID string `json:"envId"`
	Domain        string `json:"domain"`
	Bucket        string `json:"bucket"`
	Region        string `json:"region"`
	Status        string `json:"status"`
}

// EnvironmentLister lists the environments visible to the account.
type EnvironmentLister interface {
	DescribeEnvironments(ctx context.Context) ([]Environment, error)
}

// HostingManager queries and enables static hosting for an environment.
type HostingManager interface {
	// DescribeHosting returns the hosting records for the environment.
	// Zero records means hosting has not finished provisioning yet.
	DescribeHosting(ctx context.Context, envID string) ([]HostingSite, error)

	// EnableHosting requests hosting creation for the environment. The
	// control plane completes the request asynchronously; callers poll
	// DescribeHosting until a record appears.
	EnableHosting(ctx context.Context, envID string) error
}

// ControlPlane is the full control-plane surface consumed by the workflow.
type ControlPlane interface {
	EnvironmentLister
	HostingManager
}

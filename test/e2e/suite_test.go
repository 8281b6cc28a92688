//go:build e2e

// Package e2e contains end-to-end tests for the deployment workflow.
//
// The suite runs the full orchestrator against an in-memory control plane
// and a recording uploader: no cloud account or network access is needed.
//
// Run these tests with:
//
//	go test -v -tags=e2e ./test/e2e/...
package e2e

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestDeploymentWorkflow is the entry point for Ginkgo tests.
func TestDeploymentWorkflow(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Deployment Workflow Suite")
}

package cloud

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory ControlPlane for tests. Hosting lookups are
// scriptable: each DescribeHosting call pops the next queued response,
// and the final queued response repeats once the queue is drained.
type Fake struct {
	mu sync.Mutex

	Environments []Environment

	hostingQueue    [][]HostingSite
	hostingErrQueue []error

	DescribeEnvironmentsErr error
	EnableErr               error

	DescribeEnvironmentsCalls int
	DescribeHostingCalls      int
	EnableCalls               int
}

// NewFake creates a fake control plane with no environments.
func NewFake() *Fake {
	return &Fake{}
}

// QueueHosting appends one DescribeHosting response to the script.
func (f *Fake) QueueHosting(sites []HostingSite) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hostingQueue = append(f.hostingQueue, sites)
	f.hostingErrQueue = append(f.hostingErrQueue, nil)
}

// QueueHostingErr appends one failing DescribeHosting response to the script.
func (f *Fake) QueueHostingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hostingQueue = append(f.hostingQueue, nil)
	f.hostingErrQueue = append(f.hostingErrQueue, err)
}

// DescribeEnvironments implements EnvironmentLister.
func (f *Fake) DescribeEnvironments(_ context.Context) ([]Environment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DescribeEnvironmentsCalls++
	if f.DescribeEnvironmentsErr != nil {
		return nil, f.DescribeEnvironmentsErr
	}
	out := make([]Environment, len(f.Environments))
	copy(out, f.Environments)
	return out, nil
}

// DescribeHosting implements HostingManager.
func (f *Fake) DescribeHosting(_ context.Context, envID string) ([]HostingSite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DescribeHostingCalls++

	if len(f.hostingQueue) == 0 {
		return nil, fmt.Errorf("no hosting response scripted for %s", envID)
	}

	idx := f.DescribeHostingCalls - 1
	if idx >= len(f.hostingQueue) {
		idx = len(f.hostingQueue) - 1
	}
	if err := f.hostingErrQueue[idx]; err != nil {
		return nil, err
	}
	return f.hostingQueue[idx], nil
}

// EnableHosting implements HostingManager.
func (f *Fake) EnableHosting(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EnableCalls++
	return f.EnableErr
}

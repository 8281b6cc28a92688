// Package deploy dispatches artifact uploads to the hosting backend.
package deploy

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/hostctl/internal/builder"
	"github.com/imamik/hostctl/internal/provisioning"
)

// Result is the per-artifact outcome of a successful upload.
type Result struct {
	RemotePath string
	ETag       string
	Size       int64
}

// DeploymentError indicates at least one artifact failed to transfer.
// Artifacts that uploaded before the failure stay deployed; there is no
// compensating rollback.
type DeploymentError struct {
	RemotePath string
	Err        error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deploy %s: %v", e.RemotePath, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// Uploader transfers one artifact to its remote destination.
type Uploader interface {
	Upload(ctx context.Context, artifact builder.Artifact) (Result, error)
}

// Dispatcher uploads artifact sets concurrently.
type Dispatcher struct {
	uploader Uploader
	observer provisioning.Observer
}

// NewDispatcher creates a dispatcher over the given uploader.
func NewDispatcher(uploader Uploader, observer provisioning.Observer) *Dispatcher {
	return &Dispatcher{uploader: uploader, observer: observer}
}

// DeployAll uploads every artifact concurrently. Artifacts map to
// disjoint remote paths, so there is no ordering dependency between them.
//
// On success the results match the input: same count, same order. On any
// failure the aggregate call fails with the first DeploymentError
// observed; in-flight sibling uploads are not cancelled, they run to
// completion and their results are discarded.
func (d *Dispatcher) DeployAll(ctx context.Context, artifacts []builder.Artifact) ([]Result, error) {
	results := make([]Result, len(artifacts))

	d.observer.Event(provisioning.Event{
		Type:    provisioning.EventArtifactBatch,
		Phase:   "deploy",
		Message: fmt.Sprintf("uploading %d artifacts", len(artifacts)),
		Fields:  map[string]string{"count": fmt.Sprintf("%d", len(artifacts))},
	})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr *DeploymentError
	)

	for i, artifact := range artifacts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			res, err := d.uploader.Upload(ctx, artifact)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = &DeploymentError{RemotePath: artifact.RemotePath, Err: err}
				}
				mu.Unlock()
				return
			}

			results[i] = res
			d.observer.Event(provisioning.Event{
				Type:     provisioning.EventArtifactDeployed,
				Phase:    "deploy",
				Resource: artifact.RemotePath,
				Message:  "uploaded",
				Fields:   map[string]string{"bytes": fmt.Sprintf("%d", artifact.Size)},
			})
		}()
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// SiteURL constructs the user-facing deployed URL from the hosting
// domain and the remote base path.
func SiteURL(domain, cloudPath string) string {
	if cloudPath == "" {
		cloudPath = "/"
	}
	return "https://" + domain + cloudPath
}

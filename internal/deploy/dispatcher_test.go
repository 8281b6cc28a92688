package deploy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostctl/internal/builder"
	"github.com/imamik/hostctl/internal/provisioning"
)

// fakeUploader records uploads and fails for scripted remote paths.
type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	failOn   map[string]error
	delay    time.Duration
	calls    atomic.Int32
}

func (f *fakeUploader) Upload(_ context.Context, a builder.Artifact) (Result, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.failOn[a.RemotePath]; ok {
		return Result{}, err
	}
	f.mu.Lock()
	f.uploaded = append(f.uploaded, a.RemotePath)
	f.mu.Unlock()
	return Result{RemotePath: a.RemotePath, Size: a.Size, ETag: "etag-" + a.RemotePath}, nil
}

func artifacts(n int) []builder.Artifact {
	out := make([]builder.Artifact, n)
	for i := range out {
		out[i] = builder.Artifact{
			LocalPath:  fmt.Sprintf("/tmp/stage/f%d", i),
			RemotePath: fmt.Sprintf("/site/f%d", i),
			Size:       int64(i + 1),
		}
	}
	return out
}

func TestDeployAll_AllSuccess(t *testing.T) {
	up := &fakeUploader{}
	d := NewDispatcher(up, provisioning.NewConsoleObserver())

	in := artifacts(5)
	results, err := d.DeployAll(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, results, 5)

	// one request per artifact, results in input order
	assert.Equal(t, int32(5), up.calls.Load())
	for i, res := range results {
		assert.Equal(t, in[i].RemotePath, res.RemotePath)
		assert.Equal(t, in[i].Size, res.Size)
	}
}

func TestDeployAll_Empty(t *testing.T) {
	d := NewDispatcher(&fakeUploader{}, provisioning.NewConsoleObserver())

	results, err := d.DeployAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeployAll_PartialFailure(t *testing.T) {
	boom := errors.New("transfer refused")
	up := &fakeUploader{failOn: map[string]error{"/site/f2": boom}}
	d := NewDispatcher(up, provisioning.NewConsoleObserver())

	_, err := d.DeployAll(context.Background(), artifacts(4))
	require.Error(t, err)

	var de *DeploymentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "/site/f2", de.RemotePath)
	assert.ErrorIs(t, err, boom)

	// Siblings are not cancelled: every artifact was attempted, and the
	// successful uploads stay deployed (no rollback).
	assert.Equal(t, int32(4), up.calls.Load())
	assert.Len(t, up.uploaded, 3)
}

func TestDeployAll_ConcurrentDispatch(t *testing.T) {
	up := &fakeUploader{delay: 30 * time.Millisecond}
	d := NewDispatcher(up, provisioning.NewConsoleObserver())

	start := time.Now()
	_, err := d.DeployAll(context.Background(), artifacts(8))
	require.NoError(t, err)

	// Sequential would take ≥240ms; concurrent dispatch stays well under.
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestSiteURL(t *testing.T) {
	tests := []struct {
		domain    string
		cloudPath string
		want      string
	}{
		{"env-1.example.com", "/site/", "https://env-1.example.com/site/"},
		{"env-1.example.com", "/", "https://env-1.example.com/"},
		{"env-1.example.com", "", "https://env-1.example.com/"},
	}

	for _, tt := range tests {
		if got := SiteURL(tt.domain, tt.cloudPath); got != tt.want {
			t.Errorf("SiteURL(%q, %q) = %q, want %q", tt.domain, tt.cloudPath, got, tt.want)
		}
	}
}

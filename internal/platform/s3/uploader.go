package s3

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/imamik/hostctl/internal/builder"
	hostcfg "github.com/imamik/hostctl/internal/config"
	"github.com/imamik/hostctl/internal/deploy"
	"github.com/imamik/hostctl/internal/util/retry"
)

// Uploader deploys artifacts into the hosting site's storage bucket.
// Transient upload failures are retried with exponential backoff;
// non-transient failures surface immediately.
type Uploader struct {
	client   *Client
	bucket   string
	timeouts *hostcfg.Timeouts
}

// NewUploader creates an uploader writing into the given bucket.
func NewUploader(client *Client, bucket string, timeouts *hostcfg.Timeouts) *Uploader {
	return &Uploader{client: client, bucket: bucket, timeouts: timeouts}
}

// Upload implements deploy.Uploader.
func (u *Uploader) Upload(ctx context.Context, artifact builder.Artifact) (deploy.Result, error) {
	key := strings.TrimPrefix(artifact.RemotePath, "/")

	var etag string
	operation := func() error {
		f, err := os.Open(artifact.LocalPath)
		if err != nil {
			return retry.Fatal(fmt.Errorf("open artifact %s: %w", artifact.LocalPath, err))
		}
		defer func() { _ = f.Close() }()

		etag, err = u.client.PutObject(ctx, u.bucket, key, f)
		if err != nil && !IsTransient(err) {
			return retry.Fatal(err)
		}
		return err
	}

	err := retry.Do(ctx, operation,
		retry.WithMaxAttempts(u.timeouts.UploadMaxAttempts),
		retry.WithDelay(u.timeouts.UploadRetryDelay))
	if err != nil {
		return deploy.Result{}, err
	}

	return deploy.Result{
		RemotePath: artifact.RemotePath,
		ETag:       etag,
		Size:       artifact.Size,
	}, nil
}

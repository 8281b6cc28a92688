//go:build e2e

package e2e

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/hostctl/internal/builder"
	"github.com/imamik/hostctl/internal/config"
	"github.com/imamik/hostctl/internal/deploy"
	"github.com/imamik/hostctl/internal/orchestration"
	"github.com/imamik/hostctl/internal/platform/cloud"
	"github.com/imamik/hostctl/internal/precheck"
	"github.com/imamik/hostctl/internal/provisioning"
)

// memoryUploader records uploads and fails for scripted remote paths.
type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  map[string]error
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, failOn: map[string]error{}}
}

func (u *memoryUploader) Upload(_ context.Context, a builder.Artifact) (deploy.Result, error) {
	if err, ok := u.failOn[a.RemotePath]; ok {
		return deploy.Result{}, err
	}

	data, err := os.ReadFile(a.LocalPath)
	if err != nil {
		return deploy.Result{}, err
	}

	u.mu.Lock()
	u.objects[a.RemotePath] = data
	u.mu.Unlock()

	return deploy.Result{RemotePath: a.RemotePath, Size: a.Size, ETag: "etag"}, nil
}

var _ = Describe("Deployment workflow", func() {
	var (
		workDir  string
		cfg      *config.Resolved
		api      *cloud.Fake
		uploader *memoryUploader
		orch     *orchestration.Orchestrator
	)

	site := cloud.HostingSite{
		EnvironmentID: "env-1",
		Domain:        "env-1.example.com",
		Bucket:        "env-1-site",
		Region:        "eu-central",
		Status:        "active",
	}

	writeSite := func(files map[string]string) {
		for rel, content := range files {
			path := filepath.Join(workDir, "public", filepath.FromSlash(rel))
			Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
			Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		}
	}

	newOrchestrator := func() *orchestration.Orchestrator {
		timeouts := &config.Timeouts{
			PollInterval:      time.Millisecond,
			PollMaxAttempts:   5,
			UploadMaxAttempts: 2,
			UploadRetryDelay:  time.Millisecond,
		}
		observer := provisioning.NewConsoleObserver()
		return orchestration.New(cfg,
			precheck.NewChecker(api),
			provisioning.NewProvisioner(api, observer, timeouts),
			builder.New(cfg, observer, workDir),
			deploy.NewDispatcher(uploader, observer),
			observer)
	}

	BeforeEach(func() {
		workDir = GinkgoT().TempDir()

		var err error
		cfg, err = config.Resolve(config.Config{
			EnvID:      "env-1",
			OutputPath: "public",
			CloudPath:  "/site/",
			Ignore:     []string{"*.map"},
		})
		Expect(err).NotTo(HaveOccurred())

		api = cloud.NewFake()
		api.Environments = []cloud.Environment{{ID: "env-1", BillingMode: cloud.BillingPostpaid}}
		uploader = newMemoryUploader()
	})

	Context("with a postpaid environment and existing hosting", func() {
		BeforeEach(func() {
			api.QueueHosting([]cloud.HostingSite{site})
			writeSite(map[string]string{
				"index.html":    "<html></html>",
				"assets/app.js": "console.log(1)",
				"app.js.map":    "sourcemap",
			})
			orch = newOrchestrator()
		})

		It("deploys every artifact and reports the site URL", func() {
			results, url, err := orch.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(url).To(Equal("https://env-1.example.com/site/"))
			Expect(orch.Phase()).To(Equal(orchestration.PhaseDone))
			Expect(results).To(HaveLen(2))

			Expect(uploader.objects).To(HaveKey("/site/index.html"))
			Expect(uploader.objects).To(HaveKey("/site/assets/app.js"))
			Expect(uploader.objects["/site/index.html"]).To(Equal([]byte("<html></html>")))
		})

		It("excludes ignored files from the upload", func() {
			_, _, err := orch.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(uploader.objects).NotTo(HaveKey("/site/app.js.map"))
		})

		It("does not issue an enable request", func() {
			_, _, err := orch.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(api.EnableCalls).To(BeZero())
		})
	})

	Context("when hosting is not yet provisioned", func() {
		BeforeEach(func() {
			api.QueueHosting(nil)
			api.QueueHosting(nil)
			api.QueueHosting([]cloud.HostingSite{site})
			writeSite(map[string]string{"index.html": "<html></html>"})
			orch = newOrchestrator()
		})

		It("enables hosting and polls until the record appears", func() {
			_, url, err := orch.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(url).To(Equal("https://env-1.example.com/site/"))
			Expect(api.DescribeHostingCalls).To(Equal(3))
			Expect(api.EnableCalls).To(BeNumerically(">=", 1))
		})
	})

	Context("with a prepaid environment", func() {
		BeforeEach(func() {
			api.Environments = []cloud.Environment{{ID: "env-1", BillingMode: cloud.BillingPrepaid}}
			api.QueueHosting([]cloud.HostingSite{site})
			writeSite(map[string]string{"index.html": "<html></html>"})
			orch = newOrchestrator()
		})

		It("rejects the deployment before uploading anything", func() {
			_, _, err := orch.Run(context.Background())
			Expect(err).To(HaveOccurred())

			var ube *precheck.UnsupportedBillingModeError
			Expect(errors.As(err, &ube)).To(BeTrue())
			Expect(orch.Phase()).To(Equal(orchestration.PhaseFailed))
			Expect(uploader.objects).To(BeEmpty())
		})
	})

	Context("when the poll budget is exhausted", func() {
		BeforeEach(func() {
			api.QueueHosting(nil)
			writeSite(map[string]string{"index.html": "<html></html>"})
			orch = newOrchestrator()
		})

		It("fails with a provisioning error", func() {
			_, _, err := orch.Run(context.Background())
			Expect(err).To(HaveOccurred())

			var pe *provisioning.ProvisioningError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(orch.Phase()).To(Equal(orchestration.PhaseFailed))
			Expect(api.DescribeHostingCalls).To(Equal(5))
		})
	})

	Context("when one upload fails", func() {
		BeforeEach(func() {
			api.QueueHosting([]cloud.HostingSite{site})
			writeSite(map[string]string{
				"index.html":    "<html></html>",
				"assets/app.js": "console.log(1)",
			})
			uploader.failOn["/site/index.html"] = errors.New("transfer refused")
			orch = newOrchestrator()
		})

		It("fails the deployment but keeps completed uploads", func() {
			_, _, err := orch.Run(context.Background())
			Expect(err).To(HaveOccurred())

			var de *deploy.DeploymentError
			Expect(errors.As(err, &de)).To(BeTrue())
			Expect(de.RemotePath).To(Equal("/site/index.html"))

			// no rollback of siblings
			Expect(uploader.objects).To(HaveKey("/site/assets/app.js"))
			Expect(orch.Phase()).To(Equal(orchestration.PhaseFailed))
		})
	})
})

// Package builder packages a local static-site build into deployable artifacts.
//
// The builder wraps the external build toolchain: it runs the optional
// user build command as an opaque subprocess, then stages the output
// directory into a temp dir, mapping every kept file onto its remote
// destination path. The staging dir is transient state removed by Clean.
package builder

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/imamik/hostctl/internal/config"
	"github.com/imamik/hostctl/internal/provisioning"
)

// Artifact is one unit of deployable content.
type Artifact struct {
	// LocalPath is the staged absolute path of the file.
	LocalPath string
	// RemotePath is the destination under the hosting root.
	RemotePath string
	// Size is the file size in bytes.
	Size int64
}

// BuildCommandError indicates the user-supplied build command exited
// non-zero. The subprocess output is carried verbatim.
type BuildCommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *BuildCommandError) Error() string {
	msg := fmt.Sprintf("build command %q failed: %v", e.Command, e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *BuildCommandError) Unwrap() error {
	return e.Err
}

// Builder stages build output into artifacts.
type Builder struct {
	cfg      *config.Resolved
	observer provisioning.Observer

	// workDir is the project root: the build command runs here and the
	// output path is resolved against it.
	workDir string

	stagingDir string
}

// New creates a builder rooted at workDir.
func New(cfg *config.Resolved, observer provisioning.Observer, workDir string) *Builder {
	if workDir == "" {
		workDir = "."
	}
	return &Builder{cfg: cfg, observer: observer, workDir: workDir}
}

// InstallDependencies runs `npm install` when a package.json manifest is
// present. The caller treats failure as advisory: dependency installation
// is best-effort and must not abort the workflow.
func (b *Builder) InstallDependencies(ctx context.Context) error {
	manifest := filepath.Join(b.workDir, "package.json")
	if _, err := os.Stat(manifest); err != nil {
		return nil
	}

	b.observer.Printf("package.json found, installing dependencies")
	cmd := exec.CommandContext(ctx, "npm", "install")
	cmd.Dir = b.workDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("npm install: %w\n%s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// RunBuildCommand runs the configured user build command through the
// shell. A non-zero exit is fatal and surfaced as a BuildCommandError.
func (b *Builder) RunBuildCommand(ctx context.Context) error {
	if b.cfg.BuildCommand == "" {
		return nil
	}

	b.observer.Printf("running build command: %s", b.cfg.BuildCommand)
	cmd := exec.CommandContext(ctx, "sh", "-c", b.cfg.BuildCommand)
	cmd.Dir = b.workDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &BuildCommandError{
			Command: b.cfg.BuildCommand,
			Output:  strings.TrimSpace(string(out)),
			Err:     err,
		}
	}
	return nil
}

// Build walks the output directory, drops everything in the ignore set,
// stages the remaining files into a temp dir, and returns one artifact
// per staged file in lexical walk order.
func (b *Builder) Build(_ context.Context) ([]Artifact, error) {
	outputDir := b.cfg.OutputPath
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(b.workDir, outputDir)
	}

	info, err := os.Stat(outputDir)
	if err != nil {
		return nil, fmt.Errorf("output directory %s: %w", b.cfg.OutputPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", b.cfg.OutputPath)
	}

	stagingDir, err := os.MkdirTemp("", "hostctl-stage-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	b.stagingDir = stagingDir

	var artifacts []Artifact
	err = filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if b.cfg.Ignored(rel) {
			return nil
		}

		staged := filepath.Join(stagingDir, filepath.FromSlash(rel))
		if err := copyFile(path, staged); err != nil {
			return fmt.Errorf("stage %s: %w", rel, err)
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		artifacts = append(artifacts, Artifact{
			LocalPath:  staged,
			RemotePath: b.cfg.RemotePath(rel),
			Size:       fi.Size(),
		})
		return nil
	})
	if err != nil {
		_ = os.RemoveAll(stagingDir)
		b.stagingDir = ""
		return nil, err
	}

	b.observer.Printf("staged %d artifacts from %s", len(artifacts), b.cfg.OutputPath)
	return artifacts, nil
}

// Clean removes the staging dir. Failure is non-fatal; the caller logs
// and discards the error.
func (b *Builder) Clean() error {
	if b.stagingDir == "" {
		return nil
	}
	err := os.RemoveAll(b.stagingDir)
	b.stagingDir = ""
	return err
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

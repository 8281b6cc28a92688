// Package config defines the hostctl configuration schema and resolution.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "hostctl.yaml"

const (
	// DefaultOutputPath is the local build output directory.
	DefaultOutputPath = "dist"
	// DefaultCloudPath is the remote base path under the hosting root.
	DefaultCloudPath = "/"
)

// builtinIgnore is always excluded from deployment, regardless of the
// user-supplied ignore set: version-control and CI metadata, the
// dependency tree, and hostctl's own config file.
var builtinIgnore = []string{
	".git",
	".github",
	"node_modules",
	DefaultConfigFilename,
}

// Config is the user-supplied hostctl configuration.
type Config struct {
	// EnvID is the target cloud environment.
	EnvID string `yaml:"envId"`

	// OutputPath is the local directory holding the built site (default "dist").
	OutputPath string `yaml:"outputPath,omitempty"`

	// CloudPath is the remote base path under the hosting root (default "/").
	CloudPath string `yaml:"cloudPath,omitempty"`

	// Ignore is a set of glob patterns excluded from deployment, unioned
	// with the built-in exclusions.
	Ignore []string `yaml:"ignore,omitempty"`

	// BuildCommand is an optional shell command run before packaging.
	BuildCommand string `yaml:"buildCommand,omitempty"`
}

// Validate validates the user configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.EnvID == "" {
		errs = append(errs, errors.New("envId is required"))
	}
	if c.CloudPath != "" && !strings.HasPrefix(c.CloudPath, "/") {
		errs = append(errs, errors.New("cloudPath must start with /"))
	}
	if strings.Contains(c.OutputPath, "..") {
		errs = append(errs, errors.New("outputPath must not contain .."))
	}
	for _, pattern := range c.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err))
		}
	}

	return errors.Join(errs...)
}

// Resolved is the merged configuration: defaults overridden by every
// explicitly set field. It is immutable after Resolve.
type Resolved struct {
	EnvID        string
	OutputPath   string
	CloudPath    string
	Ignore       []string
	BuildCommand string

	matchers []glob.Glob
}

// Resolve merges the user configuration over the defaults and compiles
// the ignore set. Unset fields retain their defaults.
func Resolve(c Config) (*Resolved, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	r := &Resolved{
		EnvID:        c.EnvID,
		OutputPath:   DefaultOutputPath,
		CloudPath:    DefaultCloudPath,
		BuildCommand: c.BuildCommand,
	}
	if c.OutputPath != "" {
		r.OutputPath = c.OutputPath
	}
	if c.CloudPath != "" {
		r.CloudPath = normalizeCloudPath(c.CloudPath)
	}

	r.Ignore = append(r.Ignore, builtinIgnore...)
	for _, pattern := range c.Ignore {
		if contains(r.Ignore, pattern) {
			continue
		}
		r.Ignore = append(r.Ignore, pattern)
	}

	for _, pattern := range r.Ignore {
		m, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		r.matchers = append(r.matchers, m)
	}

	return r, nil
}

// Ignored reports whether the slash-separated relative path matches the
// ignore set. A pattern matching any leading path segment ignores the
// whole subtree (so ".git" ignores ".git/config").
func (r *Resolved) Ignored(relPath string) bool {
	for _, m := range r.matchers {
		if m.Match(relPath) {
			return true
		}
	}

	segments := strings.Split(relPath, "/")
	for i := 1; i < len(segments); i++ {
		prefix := strings.Join(segments[:i], "/")
		for _, m := range r.matchers {
			if m.Match(prefix) {
				return true
			}
		}
	}

	return false
}

// RemotePath maps a slash-separated relative path onto the remote base path.
func (r *Resolved) RemotePath(relPath string) string {
	return r.CloudPath + relPath
}

// normalizeCloudPath ensures a single leading and trailing slash.
func normalizeCloudPath(p string) string {
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return p
	}
	return p + "/"
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Package main is the entry point for the hostctl CLI.
//
// hostctl deploys static sites to cloud environment hosting: it verifies
// the environment's billing mode, provisions the hosting resource, builds
// the local site, and uploads the artifacts.
//
// Commands: init, deploy, version, completion.
//
// For detailed usage information, run:
//
//	hostctl --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/hostctl/cmd/hostctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

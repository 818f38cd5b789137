// Command pyscripts bundles small developer utilities for Python
// codebases, chiefly a static resolver for the dependencies of a file
// on the modules of a package.
package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/mramospe/pyscripts/cli"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})

	if err := cli.NewRootCommand().Execute(); err != nil {
		logger.Fatal("command failed", "error", err)
	}
}

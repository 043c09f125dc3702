// Command mdaq plans, validates, runs and replays multi-dimensional
// acquisitions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/mdaq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// Command dircat consolidates source files into a text report or lists
// oversized files.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dircat/internal/cli"
)

// version is set via ldflags.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)

		os.Exit(1)
	}
}

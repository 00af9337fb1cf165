// calipr is a regex-driven source code survey engine.
// Single binary — line metrics, routine complexity, and code search over
// whole source trees.
package main

import (
	"os"

	"github.com/calipr/calipr/cmd/calipr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

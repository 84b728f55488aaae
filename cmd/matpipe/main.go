// Command matpipe runs materials AutoML from the command line: dataset
// meta-features, standalone featurization and full benchmark runs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

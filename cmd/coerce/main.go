// Command coerce validates data against coerce schemas from the command line
// and serves schemas over HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

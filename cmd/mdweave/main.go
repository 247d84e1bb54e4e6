// Package main is the mdweave command: it expands markdown documents by
// resolving import directives, running inline commands and executable
// fences, and splicing the results in place.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

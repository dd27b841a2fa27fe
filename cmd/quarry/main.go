// Command quarry renders and runs queries described in YAML, and hosts an
// interactive query-building shell.
//
// Configuration comes from an optional YAML file, then the environment
// (QUARRY_ENGINE, DATABASE_URL, ...), then flags:
//
//	quarry render query.yaml --engine mysql
//	quarry exec query.yaml --dsn postgres://app@localhost/app
//	quarry repl
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

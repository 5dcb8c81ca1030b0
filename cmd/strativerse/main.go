// Package main provides the strativerse CLI application.
// strativerse curates a research database of people, publications,
// geographic features and physical records.
package main

import (
	"os"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

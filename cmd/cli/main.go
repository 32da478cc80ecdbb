// Package main is the entry point for waste-cost CLI.
package main

import (
	"os"

	"waste-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the ecourts CLI.
package main

import (
	"os"

	"github.com/jmylchreest/ecourts/cmd/ecourts/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

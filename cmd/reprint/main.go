// Package main is the entry point for the reprint CLI.
package main

import (
	"os"

	"github.com/jmylchreest/reprint/cmd/reprint/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

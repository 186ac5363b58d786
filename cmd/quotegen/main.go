// Package main is the entry point for the quotegen CLI.
package main

import (
	"os"

	"github.com/Simplici0/quotedoc/cmd/quotegen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

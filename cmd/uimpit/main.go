// Package main is the entry point for the uimpit CLI.
package main

import (
	"os"

	"github.com/thoreinstein/uimpit/cmd/uimpit/commands"
	"github.com/thoreinstein/uimpit/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.CodeOf(err))
	}
}

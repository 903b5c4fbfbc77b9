// Package main provides the eblint command.
package main

import (
	"os"

	"github.com/leapstack-labs/eblint/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}

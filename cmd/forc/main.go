// Package main provides the entry point for the forc CLI.
package main

import (
	"os"

	"github.com/swaylang/forc/cmd/forc/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args[1:], os.Stdout, os.Stderr))
}

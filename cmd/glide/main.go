// Package main provides the entry point for the glide CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/glide/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

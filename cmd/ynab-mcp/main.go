package main

import (
	"fmt"
	"os"

	"github.com/yabbi/ynab-mcp/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	root := cli.NewRootCmd(Version)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

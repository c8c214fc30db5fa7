// Package main provides the rosa CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/rosa/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

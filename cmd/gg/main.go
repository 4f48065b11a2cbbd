// Command gg is gitgud's command-line front end.
package main

import (
	"os"

	"github.com/gitgud/gitgud/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

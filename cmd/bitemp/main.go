// Command bitemp indexes and queries bi-temporal record versions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/bitemp/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

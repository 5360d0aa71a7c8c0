// Command criteria renders criteria documents and runs them against
// database tables.
package main

import (
	"os"

	"github.com/roach88/criteria/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}

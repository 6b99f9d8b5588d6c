// Command graphstore runs scenarios against the data layer and streams
// its lifecycle events.
package main

import (
	"fmt"
	"os"

	"github.com/ayushgw/graphql-basics/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

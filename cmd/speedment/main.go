// Command speedment plans and runs entity streams with SQL pushdown.
package main

import (
	"fmt"
	"os"

	"github.com/mhafizyusof/speedment/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

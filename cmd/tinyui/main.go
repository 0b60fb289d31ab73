// Command tinyui is the CLI for the tinyui component runtime.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/tinyui/cmd/tinyui/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cmd.GetExitCode(err))
	}
}

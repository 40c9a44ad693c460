// Command depthview serves heatmaps of depth-indexed sample data.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/depthview/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

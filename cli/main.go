package main

import (
	"os"

	"github.com/sqlstudio/sqlcore/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

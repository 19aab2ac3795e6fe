package main

import (
	"os"

	"github.com/moolen/halsuite/cmd/halsuite/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

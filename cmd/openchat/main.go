package main

import (
	"os"

	"github.com/DavidGershony/openChat/cmd/openchat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

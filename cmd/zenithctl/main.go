package main

import (
	"os"

	"zenith/cmd/zenithctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

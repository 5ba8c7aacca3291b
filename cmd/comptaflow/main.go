package main

import (
	"os"

	"github.com/comptaflow/comptaflow/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

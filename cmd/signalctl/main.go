package main

import (
	"os"

	"github.com/spec-kit/signalement-service/cmd/signalctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

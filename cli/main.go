package main

import (
	"os"

	"github.com/loghound-systems/loghound-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/vaultline/vaultline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
